package mastery

// LevelName returns a learner-facing name for the band a level falls in.
func LevelName(level int) string {
	switch (clampInt(level, MinLevel, MaxLevel) + 1) / 2 {
	case 1:
		return "Foundation"
	case 2:
		return "Building"
	case 3:
		return "Confident"
	default:
		return "Fluent"
	}
}

// Progress returns level progress as a 0.0-1.0 fraction for progress bars.
func Progress(level int) float64 {
	return float64(clampInt(level, MinLevel, MaxLevel)) / float64(MaxLevel)
}
