//go:build debug && withcv
// +build debug,withcv

/*
DESCRIPTION
  dump.go provides an optional, build-tag-gated helper for visually
  debugging decoded NV12/I420 output, the gocv analogue of
  filter/debug.go's debug windows for motion filters.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package framedump writes decoded frames to disk as images, for use only
// in debug builds (build tags debug,withcv); it is never linked into a
// normal build of hwdecode.
package framedump

import (
	"fmt"

	"github.com/ausocean/hwdecode"
	"gocv.io/x/gocv"
)

// Write maps pixels (a decoded frame of format img, NV12 or I420, at
// resolution res) into a gocv.Mat and writes it to path as a JPEG/PNG, the
// extension of path selecting the codec per gocv.IMWrite.
func Write(path string, img hwdecode.DecodedFormat, res hwdecode.Resolution, pixels []byte) error {
	rows := int(res.Height) * 3 / 2
	mat, err := gocv.NewMatFromBytes(rows, int(res.Width), gocv.MatTypeCV8U, pixels)
	if err != nil {
		return fmt.Errorf("framedump: building source mat: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()

	switch img {
	case hwdecode.NV12:
		gocv.CvtColor(mat, &bgr, gocv.ColorYUVToBGRNV12)
	case hwdecode.I420:
		gocv.CvtColor(mat, &bgr, gocv.ColorYUVToBGRI420)
	default:
		return fmt.Errorf("framedump: unsupported decoded format %v", img)
	}

	if ok := gocv.IMWrite(path, bgr); !ok {
		return fmt.Errorf("framedump: writing %s failed", path)
	}
	return nil
}
