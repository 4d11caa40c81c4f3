// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

// Variant selects which optional stages a build appends.
type Variant int

const (
	// Default builds the base graph only.
	Default Variant = iota
	// Min adds CSS/JS minification and the font copy.
	Min
	// Prod is Min plus critical-path CSS inlining.
	Prod
)

// ParseVariant maps the command-line flags to a variant. --prod wins when
// both flags are set.
func ParseVariant(min, prod bool) Variant {
	switch {
	case prod:
		return Prod
	case min:
		return Min
	default:
		return Default
	}
}

func (v Variant) String() string {
	switch v {
	case Default:
		return "default"
	case Min:
		return "min"
	case Prod:
		return "prod"
	default:
		return "unknown"
	}
}

// Stages returns the stages scheduled for the variant, in declaration order.
func (v Variant) Stages() []string {
	stages := []string{
		StageClean,
		StageTemplates,
		StageStyles,
		StageImages,
		StageWebP,
		StageFavicons,
		StageSprite,
		StageScripts,
	}
	if v >= Min {
		stages = append(stages, StageCompressCSS, StageCompressJS, StageFonts)
	}
	if v >= Prod {
		stages = append(stages, StageCritical)
	}
	return stages
}
