package cli

import "errors"

var (
	ErrRunAsRoot = errors.New("refusing to build packages as root")
	ErrNoRecipe  = errors.New("no recipe found")
)
