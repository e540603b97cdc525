// Package detection turns the raw YOLO output table into frame-space detections.
package detection

import (
	"peopledetect/internal/models"
)

// ScoreOffset is the column of the first class score in a YOLO output row:
// center x, center y, width, height and objectness come first.
const ScoreOffset = 5

// Table is the network output, one row per candidate. *gocv.Mat satisfies it.
type Table interface {
	Rows() int
	Cols() int
	GetFloatAt(row int, col int) float32
}

// Decode converts every row of t into a Detection. The class is the column with
// the highest score and the confidence is that score. Box coordinates are
// normalized in the table and rescaled by the frame size here. Rows without a
// positive score are dropped.
func Decode(t Table, frameWidth, frameHeight int) []models.Detection {
	cols := t.Cols()
	if cols <= ScoreOffset {
		return nil
	}

	var detections []models.Detection
	for i := 0; i < t.Rows(); i++ {
		classID, confidence := argmax(t, i, cols)
		if confidence <= 0 {
			continue
		}

		w, h := float64(frameWidth), float64(frameHeight)
		detections = append(detections, models.Detection{
			ClassID:    classID,
			Confidence: confidence,
			Box: models.Box{
				CenterX: float64(t.GetFloatAt(i, 0)) * w,
				CenterY: float64(t.GetFloatAt(i, 1)) * h,
				Width:   float64(t.GetFloatAt(i, 2)) * w,
				Height:  float64(t.GetFloatAt(i, 3)) * h,
			},
		})
	}
	return detections
}

func argmax(t Table, row, cols int) (int, float64) {
	best := 0
	bestScore := t.GetFloatAt(row, ScoreOffset)
	for col := ScoreOffset + 1; col < cols; col++ {
		if score := t.GetFloatAt(row, col); score > bestScore {
			best = col - ScoreOffset
			bestScore = score
		}
	}
	return best, float64(bestScore)
}

// Qualifies reports whether d is of the target class with a confidence strictly
// above the threshold.
func Qualifies(d models.Detection, targetClass int, minConfidence float64) bool {
	return d.ClassID == targetClass && d.Confidence > minConfidence
}

// Filter returns the detections that qualify, in their original order.
func Filter(detections []models.Detection, targetClass int, minConfidence float64) []models.Detection {
	var out []models.Detection
	for _, d := range detections {
		if Qualifies(d, targetClass, minConfidence) {
			out = append(out, d)
		}
	}
	return out
}
