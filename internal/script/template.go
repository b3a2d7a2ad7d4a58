package script

import _ "embed"

// DefaultSource is the script written by `loopfetch init` and used when no
// script exists yet.
//
//go:embed init.lua
var DefaultSource string
