package job

import (
	"fmt"
)

// job for the render worker
type FrameJob struct {
	FrameNum int
	Time     float64
}

// New schedules frame n, counting from 1, of a video at fps
func New(frameNum, fps int) FrameJob {
	return FrameJob{
		FrameNum: frameNum,
		Time:     float64(frameNum-1) / float64(fps),
	}
}

func (j FrameJob) Print() string {
	return fmt.Sprintf("Job: FrameNum: %d, Time: %.3fs", j.FrameNum, j.Time)
}

// res from the render worker
type FrameRes struct {
	FrameNum int
	Path     string
	Err      error
}
