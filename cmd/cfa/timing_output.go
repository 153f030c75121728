package main

import (
	"fmt"
	"io"
	"time"

	"cfa/internal/pipeline"
)

var stageVerbs = map[pipeline.Stage]string{
	pipeline.StageParse:    "parsed",
	pipeline.StageBuild:    "built",
	pipeline.StageSimplify: "simplified",
	pipeline.StageLiveness: "solved",
	pipeline.StageEmit:     "emitted",
}

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range pipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", stageVerbs[stage], toMillis(timings.Duration(stage)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
