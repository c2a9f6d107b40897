package game

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultColors is the room palette. Its size is the hard ceiling on room
// capacity: a join that cannot check out a color is rejected as room-full.
var DefaultColors = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
	"#bcf60c", "#fabebe", "#008080", "#e6beff",
}

var defaultWords = []string{
	"apple", "banana", "bicycle", "book", "bridge", "bus", "butterfly",
	"cactus", "camera", "candle", "car", "castle", "cat", "chair", "clock",
	"cloud", "crown", "dog", "dolphin", "door", "dragon", "drum", "elephant",
	"eye", "fish", "flower", "fork", "giraffe", "guitar", "hammer", "hat",
	"helicopter", "house", "ice cream", "key", "kite", "ladder", "lamp",
	"lighthouse", "lion", "moon", "mountain", "mushroom", "octopus", "owl",
	"pencil", "penguin", "piano", "pizza", "rainbow", "robot", "rocket",
	"sailboat", "scissors", "shark", "shoe", "snail", "snowman", "spider",
	"star", "strawberry", "sun", "sword", "telescope", "tent", "tractor",
	"train", "tree", "turtle", "umbrella", "violin", "whale", "windmill",
}

// LoadWords reads one word per line from path. An empty path selects the
// built-in list.
func LoadWords(path string) ([]string, error) {
	if path == "" {
		return append([]string(nil), defaultWords...), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open words file %s: %w", path, err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			words = append(words, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read words file %s: %w", path, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("words file %s is empty", path)
	}
	return words, nil
}
