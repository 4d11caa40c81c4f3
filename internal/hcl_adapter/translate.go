// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl_adapter

import (
	"fmt"
	"time"

	"github.com/specialistvlad/assetgrid/internal/config"
)

// translate overlays the decoded file on top of the model's defaults.
func translate(root *fileRoot, m *config.Model) error {
	setString(&m.Source, root.Source)
	setString(&m.Output, root.Output)

	if b := root.Templates; b != nil {
		setSlice(&m.Templates.Sources, b.Sources)
		setSlice(&m.Templates.Partials, b.Partials)
		if b.Data != nil {
			m.Templates.Data = b.Data
		}
	}

	if b := root.Styles; b != nil {
		setSlice(&m.Styles.Sources, b.Sources)
		setString(&m.Styles.Dest, b.Dest)
		setString(&m.Styles.SassBinary, b.SassBinary)
		setSlice(&m.Styles.LoadPaths, b.LoadPaths)
		setSlice(&m.Styles.Targets, b.Targets)
		if b.MediaQueries != nil {
			m.Styles.MediaQueries = b.MediaQueries
		}
	}

	if b := root.Images; b != nil {
		setSlice(&m.Images.Sources, b.Sources)
		setString(&m.Images.Dest, b.Dest)
		setInt(&m.Images.JPEGQuality, b.JPEGQuality)
	}

	if b := root.Favicons; b != nil {
		setString(&m.Favicons.Source, b.Source)
		setString(&m.Favicons.Dest, b.Dest)
		setSlice(&m.Favicons.Sizes, b.Sizes)
		setInt(&m.Favicons.CoastOffset, b.CoastOffset)
		setString(&m.Favicons.AppName, b.AppName)
	}

	if b := root.Sprite; b != nil {
		setSlice(&m.Sprite.Sources, b.Sources)
		setString(&m.Sprite.Dest, b.Dest)
		if b.StripAttrs != nil {
			m.Sprite.StripAttrs = b.StripAttrs
		}
	}

	if b := root.Scripts; b != nil {
		setString(&m.Scripts.Entry, b.Entry)
		setString(&m.Scripts.Dest, b.Dest)
		setString(&m.Scripts.Target, b.Target)
	}

	if b := root.Fonts; b != nil {
		setString(&m.Fonts.Source, b.Source)
		setString(&m.Fonts.Dest, b.Dest)
	}

	if b := root.Server; b != nil {
		setString(&m.Server.Host, b.Host)
		setInt(&m.Server.Port, b.Port)
		if b.Debounce != nil {
			d, err := time.ParseDuration(*b.Debounce)
			if err != nil {
				return fmt.Errorf("server.debounce: %w", err)
			}
			m.Server.Debounce = d
		}
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// setSlice replaces dst only when the attribute was given with at least one
// element; an empty list keeps the default.
func setSlice[T any](dst *[]T, v []T) {
	if len(v) > 0 {
		*dst = v
	}
}
