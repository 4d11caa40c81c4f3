package registry

import (
	"context"
	"testing"

	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(desc string) *RegisteredTransform {
	return &RegisteredTransform{
		Description: desc,
		New: func(cfg *config.Model) task.Action {
			return func(context.Context) (*task.Result, error) {
				return &task.Result{Outputs: []string{cfg.OutputPath(desc)}}, nil
			}
		},
	}
}

func TestRegisterTransform(t *testing.T) {
	r := New()
	r.RegisterTransform("styles", stub("css"))
	r.RegisterTransform("scripts", stub("js"))

	assert.Equal(t, []string{"scripts", "styles"}, r.Names())

	_, ok := r.Transform("styles")
	assert.True(t, ok)
	_, ok = r.Transform("fonts")
	assert.False(t, ok)

	assert.Panics(t, func() { r.RegisterTransform("styles", stub("again")) })
	assert.Panics(t, func() { r.RegisterTransform("broken", &RegisteredTransform{}) })
}

func TestTask(t *testing.T) {
	r := New()
	r.RegisterTransform("styles", stub("css"))
	cfg := config.Default()

	tk, err := r.Task("styles", cfg)
	require.NoError(t, err)
	assert.Equal(t, "styles", tk.Name)
	assert.Equal(t, "css", tk.Description)

	res, err := tk.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"public/css"}, res.Outputs)

	_, err = r.Task("fonts", cfg)
	assert.ErrorContains(t, err, "no transform registered")
}

func TestValidateRegistry(t *testing.T) {
	r := New()
	r.RegisterTransform("clean", stub("clean"))

	require.NoError(t, r.ValidateRegistry(context.Background(), []string{"clean"}))

	err := r.ValidateRegistry(context.Background(), []string{"clean", "styles", "webp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "styles, webp")
}
