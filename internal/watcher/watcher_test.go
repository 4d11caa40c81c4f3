package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/reload"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceTree creates the directories the default rules are anchored on.
func sourceTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"assets/img", "assets/icons", "views", "scss", "js"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	return root
}

// journal records task executions across rules.
type journal struct {
	mu  sync.Mutex
	ran []string
}

func (j *journal) task(name string, err error) *task.Task {
	return task.New(name, "", func(context.Context) (*task.Result, error) {
		j.mu.Lock()
		j.ran = append(j.ran, name)
		j.mu.Unlock()
		return nil, err
	})
}

func (j *journal) entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.ran...)
}

func waitNotification(t *testing.T, sub <-chan reload.Notification) reload.Notification {
	t.Helper()
	select {
	case n := <-sub:
		return n
	case <-time.After(5 * time.Second):
		t.Fatal("no reload notification")
		return reload.Notification{}
	}
}

func assertNoNotification(t *testing.T, sub <-chan reload.Notification, within time.Duration) {
	t.Helper()
	select {
	case n := <-sub:
		t.Fatalf("unexpected notification: %+v", n)
	case <-time.After(within):
	}
}

func TestCompileGlobs(t *testing.T) {
	testCases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"assets/img/**/*.{jpg,jpeg,png}", "assets/img/a.jpg", true},
		{"assets/img/**/*.{jpg,jpeg,png}", "assets/img/x/y/a.png", true},
		{"assets/img/**/*.{jpg,jpeg,png}", "assets/img/a.gif", false},
		{"assets/icons/*.svg", "assets/icons/a.svg", true},
		{"assets/icons/*.svg", "assets/icons/sub/a.svg", false},
		{"views/**/*.tmpl", "views/index.tmpl", true},
		{"views/**/*.tmpl", "views/partials/head.tmpl", true},
		{"**/*.js", "main.js", true},
		{"assets/favicon.png", "assets/favicon.png", true},
	}

	for _, tc := range testCases {
		t.Run(tc.pattern+"|"+tc.path, func(t *testing.T) {
			globs, err := compileGlobs(tc.pattern)
			require.NoError(t, err)
			r := &compiledRule{globs: globs}
			assert.Equal(t, tc.want, r.match(tc.path))
		})
	}
}

func TestNew_Validation(t *testing.T) {
	root := sourceTree(t)
	j := &journal{}
	ok := j.task("ok", nil)

	testCases := []struct {
		name  string
		rules []Rule
	}{
		{"missing base dir", []Rule{{Name: "fonts", Pattern: "assets/fonts/**/*", Tasks: []*task.Task{ok}}}},
		{"malformed pattern", []Rule{{Name: "bad", Pattern: "js/[*.js", Tasks: []*task.Task{ok}}}},
		{"escaping pattern", []Rule{{Name: "up", Pattern: "../*.js", Tasks: []*task.Task{ok}}}},
		{"no tasks", []Rule{{Name: "empty", Pattern: "js/*.js"}}},
		{"no name", []Rule{{Pattern: "js/*.js", Tasks: []*task.Task{ok}}}},
		{"duplicate", []Rule{
			{Name: "js", Pattern: "js/*.js", Tasks: []*task.Task{ok}},
			{Name: "js", Pattern: "js/**/*.js", Tasks: []*task.Task{ok}},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(root, tc.rules, reload.NewChannel())
			require.Error(t, err)
			var cfgErr *config.Error
			assert.True(t, errors.As(err, &cfgErr), "got %T: %v", err, err)
		})
	}
}

func TestDispatch_RunsRuleTasksOnceThenNotifies(t *testing.T) {
	root := sourceTree(t)
	j := &journal{}
	ch := reload.NewChannel()
	sub, cancel := ch.Subscribe()
	defer cancel()

	w, err := New(root, []Rule{
		{Name: "images", Pattern: "assets/img/**/*.{jpg,jpeg,png}", Tasks: []*task.Task{j.task("images", nil), j.task("webp", nil)}},
		{Name: "scripts", Pattern: "js/**/*.js", Tasks: []*task.Task{j.task("scripts", nil)}},
		{Name: "styles", Pattern: "scss/**/*.{scss,sass,css}", Tasks: []*task.Task{j.task("styles", nil)}, Kind: reload.CSS},
	}, ch, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, []string{"images", "scripts", "styles"}, w.Rules())

	ctx := context.Background()
	assert.Equal(t, []string{"images"}, w.Dispatch(ctx, "assets/img/photo.jpg"))

	n := waitNotification(t, sub)
	assert.Equal(t, reload.Notification{Kind: reload.Full, Rule: "images"}, n)
	w.Wait()
	assert.Equal(t, []string{"images", "webp"}, j.entries())
	assertNoNotification(t, sub, 100*time.Millisecond)

	assert.Equal(t, []string{"styles"}, w.Dispatch(ctx, "scss/_vars.scss"))
	assert.Equal(t, reload.CSS, waitNotification(t, sub).Kind)

	assert.Empty(t, w.Dispatch(ctx, "README.md"))
}

func TestDispatch_CoalescesBursts(t *testing.T) {
	root := sourceTree(t)
	var runs atomic.Int32
	ch := reload.NewChannel()
	sub, cancel := ch.Subscribe()
	defer cancel()

	count := task.New("scripts", "", func(context.Context) (*task.Result, error) {
		runs.Add(1)
		return nil, nil
	})
	w, err := New(root, []Rule{{Name: "scripts", Pattern: "js/**/*.js", Tasks: []*task.Task{count}}}, ch, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		w.Dispatch(context.Background(), "js/main.js")
	}

	waitNotification(t, sub)
	assertNoNotification(t, sub, 200*time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestDispatch_QueuesInsteadOfPreempting(t *testing.T) {
	root := sourceTree(t)
	ch := reload.NewChannel()
	sub, cancel := ch.Subscribe()
	defer cancel()

	started := make(chan struct{}, 4)
	release := make(chan struct{})
	var runs, active, overlap atomic.Int32

	slow := task.New("templates", "", func(ctx context.Context) (*task.Result, error) {
		if active.Add(1) > 1 {
			overlap.Add(1)
		}
		defer active.Add(-1)
		runs.Add(1)
		started <- struct{}{}
		<-release
		return nil, ctx.Err()
	})

	w, err := New(root, []Rule{{Name: "views", Pattern: "views/**/*.tmpl", Tasks: []*task.Task{slow}}}, ch, WithDebounce(0))
	require.NoError(t, err)

	ctx := context.Background()
	w.Dispatch(ctx, "views/index.tmpl")
	<-started

	// Several changes while running collapse into one queued run.
	w.Dispatch(ctx, "views/index.tmpl")
	w.Dispatch(ctx, "views/about.tmpl")
	w.Dispatch(ctx, "views/partials/head.tmpl")

	release <- struct{}{}
	waitNotification(t, sub)
	<-started
	release <- struct{}{}
	waitNotification(t, sub)

	w.Wait()
	assert.Equal(t, int32(2), runs.Load())
	assert.Zero(t, overlap.Load())
}

func TestDispatch_FailureSuppressesNotification(t *testing.T) {
	root := sourceTree(t)
	j := &journal{}
	ch := reload.NewChannel()
	sub, cancel := ch.Subscribe()
	defer cancel()

	var reported []string
	var mu sync.Mutex
	boom := errors.New("undefined variable")

	w, err := New(root, []Rule{
		{Name: "styles", Pattern: "scss/*.scss", Tasks: []*task.Task{j.task("styles", boom), j.task("after", nil)}, Kind: reload.CSS},
	}, ch, WithDebounce(0), WithFailureReporter(func(_ context.Context, rule string, err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, rule+": "+err.Error())
	}))
	require.NoError(t, err)

	w.Dispatch(context.Background(), "scss/main.scss")
	w.Wait()

	assertNoNotification(t, sub, 100*time.Millisecond)
	assert.Equal(t, []string{"styles"}, j.entries(), "tasks after a failure do not run")
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reported, 1)
	assert.Contains(t, reported[0], "styles: task 'styles' failed: undefined variable")
}

func TestRun_ReactsToFilesystemChanges(t *testing.T) {
	root := sourceTree(t)
	ch := reload.NewChannel()
	sub, cancel := ch.Subscribe()
	defer cancel()

	j := &journal{}
	w, err := New(root, []Rule{
		{Name: "icons", Pattern: "assets/icons/**/*.svg", Tasks: []*task.Task{j.task("sprite", nil)}},
	}, ch, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// fsnotify needs a moment to register the directories.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets/icons/star.svg"), []byte("<svg/>"), 0o644))
	assert.Equal(t, "icons", waitNotification(t, sub).Rule)

	// A directory created after startup is watched too.
	sub2 := filepath.Join(root, "assets/icons/brand")
	require.NoError(t, os.MkdirAll(sub2, 0o755))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub2, "logo.svg"), []byte("<svg/>"), 0o644))
	assert.Equal(t, "icons", waitNotification(t, sub).Rule)

	stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestError(t *testing.T) {
	cause := errors.New("too many open files")
	err := &Error{Op: "add", Path: "/src", Err: cause}
	assert.Equal(t, "watcher add /src: too many open files", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "watcher create: too many open files", (&Error{Op: "create", Err: cause}).Error())
}
