package progress

import "github.com/kotoba-nexus/backend/internal/models"

// NextLevel computes the proficiency level after one review: one step up
// on a correct answer, one step down on a wrong one, clamped to [0, 10].
// Input levels outside the range are clamped before the step so a
// corrupted stored value cannot escape the scale.
func NextLevel(level int, correct bool) int {
	if level < models.MinProficiency {
		level = models.MinProficiency
	}
	if level > models.MaxProficiency {
		level = models.MaxProficiency
	}
	if correct {
		if level < models.MaxProficiency {
			return level + 1
		}
		return models.MaxProficiency
	}
	if level > models.MinProficiency {
		return level - 1
	}
	return models.MinProficiency
}
