// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl_adapter

// fileRoot is the top-level shape of an assetgrid.hcl file. Pointer fields
// stay nil when the attribute is absent so defaults can be told apart from
// explicit zero values.
type fileRoot struct {
	Source    *string         `hcl:"source,optional"`
	Output    *string         `hcl:"output,optional"`
	Templates *templatesBlock `hcl:"templates,block"`
	Styles    *stylesBlock    `hcl:"styles,block"`
	Images    *imagesBlock    `hcl:"images,block"`
	Favicons  *faviconsBlock  `hcl:"favicons,block"`
	Sprite    *spriteBlock    `hcl:"sprite,block"`
	Scripts   *scriptsBlock   `hcl:"scripts,block"`
	Fonts     *fontsBlock     `hcl:"fonts,block"`
	Server    *serverBlock    `hcl:"server,block"`
}

type templatesBlock struct {
	Sources  []string          `hcl:"sources,optional"`
	Partials []string          `hcl:"partials,optional"`
	Data     map[string]string `hcl:"data,optional"`
}

type stylesBlock struct {
	Sources      []string          `hcl:"sources,optional"`
	Dest         *string           `hcl:"dest,optional"`
	SassBinary   *string           `hcl:"sass_binary,optional"`
	LoadPaths    []string          `hcl:"load_paths,optional"`
	Targets      []string          `hcl:"targets,optional"`
	MediaQueries map[string]string `hcl:"media_queries,optional"`
}

type imagesBlock struct {
	Sources     []string `hcl:"sources,optional"`
	Dest        *string  `hcl:"dest,optional"`
	JPEGQuality *int     `hcl:"jpeg_quality,optional"`
}

type faviconsBlock struct {
	Source      *string `hcl:"source,optional"`
	Dest        *string `hcl:"dest,optional"`
	Sizes       []int   `hcl:"sizes,optional"`
	CoastOffset *int    `hcl:"coast_offset,optional"`
	AppName     *string `hcl:"app_name,optional"`
}

type spriteBlock struct {
	Sources    []string `hcl:"sources,optional"`
	Dest       *string  `hcl:"dest,optional"`
	StripAttrs []string `hcl:"strip_attrs,optional"`
}

type scriptsBlock struct {
	Entry  *string `hcl:"entry,optional"`
	Dest   *string `hcl:"dest,optional"`
	Target *string `hcl:"target,optional"`
}

type fontsBlock struct {
	Source *string `hcl:"source,optional"`
	Dest   *string `hcl:"dest,optional"`
}

type serverBlock struct {
	Host     *string `hcl:"host,optional"`
	Port     *int    `hcl:"port,optional"`
	Debounce *string `hcl:"debounce,optional"`
}
