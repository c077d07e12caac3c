package achievements

// Level is one rung of the points ladder.
type Level struct {
	Level     int    `json:"level"`
	Name      string `json:"name"`
	MinPoints int    `json:"minPoints"`
}

var Levels = []Level{
	{1, "Beginner", 0},
	{2, "Learner", 50},
	{3, "Organized", 150},
	{4, "Skilled", 300},
	{5, "Professional", 500},
	{6, "Expert", 750},
	{7, "Legend", 1000},
}

// LevelInfo is the level reached for a points total.
type LevelInfo struct {
	Level
	Points   int     `json:"points"`
	Progress float64 `json:"progress"`
	Next     *Level  `json:"nextLevel,omitempty"`
}

// LevelFor returns the highest level whose minimum is at most points and the
// linear progress towards the next one, capped at 100. The top level reports
// 100.
func LevelFor(points int) LevelInfo {
	idx := 0
	for i := len(Levels) - 1; i >= 0; i-- {
		if points >= Levels[i].MinPoints {
			idx = i
			break
		}
	}
	info := LevelInfo{Level: Levels[idx], Points: points, Progress: 100}
	if idx+1 < len(Levels) {
		next := Levels[idx+1]
		info.Next = &next
		span := float64(next.MinPoints - info.MinPoints)
		info.Progress = min(float64(points-info.MinPoints)/span*100, 100)
		if info.Progress < 0 {
			info.Progress = 0
		}
	}
	return info
}
