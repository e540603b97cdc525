package detection

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadClassNames reads one class name per line. An empty path yields no names.
func LoadClassNames(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class names: %w", err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		names = append(names, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read class names: %w", err)
	}
	return names, nil
}

// Label returns the name for classID, or fallback when the names do not cover it.
// An empty fallback gives "unknown(<id>)".
func Label(names []string, classID int, fallback string) string {
	if classID >= 0 && classID < len(names) && names[classID] != "" {
		return names[classID]
	}
	if fallback != "" {
		return fallback
	}
	return fmt.Sprintf("unknown(%d)", classID)
}
