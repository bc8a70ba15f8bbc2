package engine

import (
	"fmt"
	"math/rand"
)

// Doodle hints keep a session productive between user directives. Half the
// time the hint pairs a random subject with a random treatment; the other
// half it picks from a fixed list of free-form prompts.

var doodleSubjects = []string{
	"cloud", "star", "flower petal", "water drop", "leaf", "heart", "butterfly",
	"sun", "mountain", "wave", "lightning bolt", "blade of grass", "ring",
	"spiral", "moon", "snowflake", "flame", "frond", "fish", "bird",
	"house roof", "finger line", "pair of lips", "eye", "nose", "ear",
	"tree branch", "pebble", "pill shape", "character head",
}

var doodleStyles = []string{
	"in one stroke", "simply", "outline only", "small", "smoothly",
	"loosely", "playfully", "in a single line",
}

var doodleFixed = []string{
	"Draw a small curve",
	"Draw a zigzag line",
	"Draw a wavy line",
	"Draw a smooth S curve",
	"Draw a small arc",
	"Draw a spiral",
	"Draw a meandering line",
	"Draw three dots connected",
	"Draw several short straight lines",
	"Draw a round loop",
	"Draw one line of freehand scribble",
	"Draw something like a tangled thread",
	"Draw a staircase line",
	"Draw a sawtooth line",
	"Draw half a circle",
	"Draw three waves in a row",
	"Draw a forking branch",
	"Draw a character head outline in one line",
	"Draw the outline of a simple flower",
	"Draw a sunrise, outline only",
	"Draw whatever comes to mind in one stroke",
	"Draw the outline of any animal you can think of",
}

func doodleHint() string {
	if rand.Float64() < 0.5 {
		return fmt.Sprintf("Draw a %s, %s", doodleSubjects[rand.Intn(len(doodleSubjects))], doodleStyles[rand.Intn(len(doodleStyles))])
	}
	return doodleFixed[rand.Intn(len(doodleFixed))]
}
