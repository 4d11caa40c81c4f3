// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/modules/clean"
	"github.com/specialistvlad/assetgrid/modules/compress"
	"github.com/specialistvlad/assetgrid/modules/critical"
	"github.com/specialistvlad/assetgrid/modules/favicons"
	"github.com/specialistvlad/assetgrid/modules/fonts"
	"github.com/specialistvlad/assetgrid/modules/images"
	"github.com/specialistvlad/assetgrid/modules/scripts"
	"github.com/specialistvlad/assetgrid/modules/sprite"
	"github.com/specialistvlad/assetgrid/modules/styles"
	"github.com/specialistvlad/assetgrid/modules/templates"
)

// coreModules is the definitive list of all modules that are compiled into
// the assetgrid binary.
var coreModules = []registry.Module{
	&clean.Module{},
	&templates.Module{},
	&styles.Module{},
	&images.Module{},
	&favicons.Module{},
	&sprite.Module{},
	&scripts.Module{},
	&fonts.Module{},
	&compress.Module{},
	&critical.Module{},
}
