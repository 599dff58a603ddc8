package main

import (
	"fmt"
	"io"

	"parsetrace/internal/observ"
)

func printStageTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}
