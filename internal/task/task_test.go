package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Success(t *testing.T) {
	tk := New("styles", "compile stylesheets", func(ctx context.Context) (*Result, error) {
		return &Result{Outputs: []string{"public/css/main.css"}}, nil
	})

	res, err := tk.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"public/css/main.css"}, res.Outputs)
}

func TestExecute_NilResultIsEmpty(t *testing.T) {
	tk := New("clean", "", func(ctx context.Context) (*Result, error) { return nil, nil })

	res, err := tk.Execute(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Outputs)
}

func TestExecute_WrapsFailure(t *testing.T) {
	cause := errors.New("unexpected token")
	tk := New("scripts", "", func(ctx context.Context) (*Result, error) { return nil, cause })

	_, err := tk.Execute(context.Background())
	require.Error(t, err)

	var taskErr *Error
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "scripts", taskErr.Task)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "task 'scripts' failed: unexpected token")
}
