package stream

import "github.com/smtk-dev/smtk/pkg/sm/smerr"

var errTooManyFrames = smerr.Wrap(smerr.ErrMacro, "too many open frames (max %d)", MaxDepth)
