// Package fetch downloads remote source files over HTTP.
package fetch
