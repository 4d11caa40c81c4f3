// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package styles

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/evanw/esbuild/pkg/api"
)

// engine is a parsed browser target such as "chrome58".
type engine = api.Engine

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"ie":      api.EngineIE,
	"ios":     api.EngineIOS,
	"opera":   api.EngineOpera,
	"safari":  api.EngineSafari,
}

// parseTargets turns targets like "safari11" into esbuild engines.
func parseTargets(targets []string) ([]engine, error) {
	engines := make([]engine, 0, len(targets))
	for _, t := range targets {
		i := strings.IndexFunc(t, unicode.IsDigit)
		if i <= 0 {
			return nil, fmt.Errorf("invalid style target %q", t)
		}
		name, ok := engineNames[strings.ToLower(t[:i])]
		if !ok {
			return nil, fmt.Errorf("unknown browser in style target %q", t)
		}
		engines = append(engines, engine{Name: name, Version: t[i:]})
	}
	return engines, nil
}

// assetExternals keeps url() references to images and fonts untouched.
var assetExternals = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg", "*.webp", "*.avif", "*.ico",
	"*.woff", "*.woff2", "*.ttf", "*.otf", "*.eot",
}

// bundle resolves @import in css relative to src and lowers it for engines.
// The result ends in an inline source map pointing at the authored files,
// through the map sass embedded in css when there is one.
func bundle(css []byte, src, outfile string, engines []engine) ([]byte, error) {
	result := api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   string(css),
			ResolveDir: filepath.Dir(src),
			Sourcefile: filepath.Base(src),
			Loader:     api.LoaderCSS,
		},
		Bundle:    true,
		Write:     false,
		Outfile:   outfile,
		Sourcemap: api.SourceMapInline,
		Engines:   engines,
		External:  assetExternals,
		LogLevel:  api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return nil, messagesError(result.Errors)
	}
	code, _, err := outputs(result.OutputFiles, outfile)
	return code, err
}

// link re-emits css as outfile with an external source map. The inline map
// css carries is folded into it, so the map still names the authored files.
func link(css []byte, src, outfile string) (code, sourceMap []byte, err error) {
	result := api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   string(css),
			ResolveDir: filepath.Dir(src),
			Sourcefile: filepath.Base(src),
			Loader:     api.LoaderCSS,
		},
		Write:     false,
		Outfile:   outfile,
		Sourcemap: api.SourceMapLinked,
		LogLevel:  api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return nil, nil, messagesError(result.Errors)
	}
	code, sourceMap, err = outputs(result.OutputFiles, outfile)
	if err == nil && sourceMap == nil {
		err = errors.New("esbuild produced no source map")
	}
	return code, sourceMap, err
}

// outputs picks the stylesheet and its map out of an esbuild result.
func outputs(files []api.OutputFile, outfile string) (code, sourceMap []byte, err error) {
	name := filepath.Base(outfile)
	for _, f := range files {
		switch filepath.Base(f.Path) {
		case name:
			code = f.Contents
		case name + ".map":
			sourceMap = f.Contents
		}
	}
	if code == nil {
		return nil, nil, errors.New("esbuild produced no stylesheet")
	}
	return code, sourceMap, nil
}

func messagesError(msgs []api.Message) error {
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: api.ErrorMessage})
	return errors.New(strings.TrimSpace(strings.Join(formatted, "\n")))
}
