package models

import (
	"image"
	"math"
)

// Box is an axis-aligned rectangle given by its center, in frame pixels.
type Box struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Rect returns the pixel rectangle covered by the box.
func (b Box) Rect() image.Rectangle {
	return image.Rect(
		round(b.CenterX-b.Width/2),
		round(b.CenterY-b.Height/2),
		round(b.CenterX+b.Width/2),
		round(b.CenterY+b.Height/2),
	)
}

// Center returns the box center rounded to a pixel.
func (b Box) Center() image.Point {
	return image.Pt(round(b.CenterX), round(b.CenterY))
}

func round(v float64) int {
	return int(math.Round(v))
}

// Detection represents one candidate object reported by the network for one frame.
type Detection struct {
	ClassID    int     `json:"class_id"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}
