// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

// Stage names. Each one is implemented by exactly one module.
const (
	StageClean       = "clean"
	StageTemplates   = "templates"
	StageStyles      = "styles"
	StageImages      = "images"
	StageWebP        = "webp"
	StageFavicons    = "favicons"
	StageSprite      = "sprite"
	StageScripts     = "scripts"
	StageFonts       = "fonts"
	StageCompressCSS = "compress-css"
	StageCompressJS  = "compress-js"
	StageCritical    = "critical"
)

// AllStages lists every stage any variant can schedule.
func AllStages() []string {
	return []string{
		StageClean,
		StageTemplates,
		StageStyles,
		StageImages,
		StageWebP,
		StageFavicons,
		StageSprite,
		StageScripts,
		StageFonts,
		StageCompressCSS,
		StageCompressJS,
		StageCritical,
	}
}
