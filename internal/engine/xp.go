package engine

// LevelThresholds holds the cumulative XP needed to be at each level, starting at level 1.
var LevelThresholds = []int{
	0,    // level 1
	100,  // level 2
	250,  // level 3
	500,  // level 4
	800,  // level 5
	1200, // level 6
	1700, // level 7
	2300, // level 8
	3000, // level 9
	4000, // level 10
}

// MaxLevel is the highest level the thresholds define.
func MaxLevel() int {
	return len(LevelThresholds)
}

// XPRequiredForLevel returns the total XP threshold required to be at the given level.
// Levels past the table return the last threshold.
func XPRequiredForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > len(LevelThresholds) {
		return LevelThresholds[len(LevelThresholds)-1]
	}
	return LevelThresholds[level-1]
}

// LevelForTotalXP returns the highest level L such that totalXP >= XPRequiredForLevel(L).
func LevelForTotalXP(totalXP int) int {
	return advanceLevel(1, totalXP, LevelThresholds)
}

// advanceLevel moves level forward while the next threshold is met. It never decreases level.
func advanceLevel(level, totalXP int, thresholds []int) int {
	if level < 1 {
		level = 1
	}
	for level < len(thresholds) && totalXP >= thresholds[level] {
		level++
	}
	return level
}

// Progress describes how far a player is into their current level.
type Progress struct {
	Level      int
	TotalXP    int
	LevelFloor int // cumulative XP where the current level starts
	NextAt     int // cumulative XP for the next level; equals LevelFloor at max level
	IntoLevel  int
	ToNext     int
	MaxLevel   bool
}

// Percent returns progress through the current level in [0, 1].
func (p Progress) Percent() float64 {
	if p.MaxLevel || p.NextAt <= p.LevelFloor {
		return 1
	}
	return float64(p.IntoLevel) / float64(p.NextAt-p.LevelFloor)
}

func ProgressFor(s State) Progress {
	p := Progress{
		Level:      s.Level,
		TotalXP:    s.XP,
		LevelFloor: XPRequiredForLevel(s.Level),
	}
	if s.Level >= MaxLevel() {
		p.MaxLevel = true
		p.NextAt = p.LevelFloor
	} else {
		p.NextAt = XPRequiredForLevel(s.Level + 1)
	}
	p.IntoLevel = s.XP - p.LevelFloor
	if p.IntoLevel < 0 {
		p.IntoLevel = 0
	}
	p.ToNext = p.NextAt - s.XP
	if p.ToNext < 0 {
		p.ToNext = 0
	}
	return p
}
