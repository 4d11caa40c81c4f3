// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/reload"
	"github.com/specialistvlad/assetgrid/internal/registry"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/specialistvlad/assetgrid/internal/watcher"
)

// watchEntry is one row of the watch table before its tasks are built.
type watchEntry struct {
	name    string
	pattern string
	stages  []string
	kind    reload.Kind
}

var watchTable = []watchEntry{
	{"images", "assets/img/**/*.{jpg,jpeg,png}", []string{StageImages, StageWebP}, reload.Full},
	{"icons", "assets/icons/*.svg", []string{StageSprite}, reload.Full},
	{"favicon", "assets/favicon.png", []string{StageFavicons}, reload.Full},
	{"views", "views/**/*.tmpl", []string{StageTemplates}, reload.Full},
	{"styles", "scss/**/*.{scss,sass,css}", []string{StageStyles}, reload.CSS},
	{"scripts", "js/**/*.js", []string{StageScripts}, reload.Full},
}

// WatchRules builds the watcher's rule table. Each rule gets its own task
// instances so a rule's run never shares state with the initial build.
func WatchRules(cfg *config.Model, reg *registry.Registry) ([]watcher.Rule, error) {
	rules := make([]watcher.Rule, 0, len(watchTable))
	for _, entry := range watchTable {
		tasks := make([]*task.Task, 0, len(entry.stages))
		for _, stage := range entry.stages {
			t, err := reg.Task(stage, cfg)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, t)
		}
		rules = append(rules, watcher.Rule{
			Name:    entry.name,
			Pattern: entry.pattern,
			Tasks:   tasks,
			Kind:    entry.kind,
		})
	}
	return rules, nil
}
