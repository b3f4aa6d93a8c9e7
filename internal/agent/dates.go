package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the line formats accepted in dates.txt.
var dateLayouts = []string{
	"2006-01-02",
	"02-Jan-2006",
	"Jan 02, 2006",
	"2006/01/02 15:04:05",
}

// countableWeekdays maps the day names the classifier routes here to
// time.Weekday, in the order they are searched for in the task text.
var countableWeekdays = []struct {
	name string
	day  time.Weekday
}{
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"sunday", time.Sunday},
}

// countDates counts the lines of dates.txt that fall on the weekday named
// in the task and writes the count to dates-<weekday>s.txt.
func (a *Agent) countDates(ctx context.Context, taskText string) (string, error) {
	lower := strings.ToLower(taskText)
	name := ""
	var day time.Weekday
	for _, wd := range countableWeekdays {
		if strings.Contains(lower, wd.name) {
			name, day = wd.name, wd.day
			break
		}
	}
	if name == "" {
		return "", errors.New("task does not name a weekday to count")
	}

	data, err := os.ReadFile(a.box.Path("dates.txt"))
	if err != nil {
		return "", fmt.Errorf("read dates.txt: %w", err)
	}

	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		t, err := parseDate(line)
		if err != nil {
			return "", err
		}
		if t.Weekday() == day {
			count++
		}
	}

	out := a.box.Path("dates-" + name + "s.txt")
	if err := os.WriteFile(out, []byte(strconv.Itoa(count)), 0o644); err != nil {
		return "", fmt.Errorf("write count: %w", err)
	}
	return fmt.Sprintf("Counted %d %ss", count, name), nil
}

// parseDate tries each accepted layout in order.
func parseDate(line string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, line); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q in dates.txt", line)
}
