package config

import "errors"

var ErrConfigLoad = errors.New("configuration load failed")
