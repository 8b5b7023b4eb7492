package parser

import (
	"bufio"
	"fmt"
	"strings"
	"unicode"

	"github.com/me/groupsched/pkg/model"
)

// ParseGroups reads one group per line: task ids separated by commas or
// whitespace. A group is named after its line number ("group 3"); blank
// lines are skipped but still counted.
func ParseGroups(text string) ([]model.GroupSpec, error) {
	var groups []model.GroupSpec
	sc := bufio.NewScanner(strings.NewReader(text))
	line := 0
	for sc.Scan() {
		line++
		ids := strings.FieldsFunc(sc.Text(), func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(ids) == 0 {
			continue
		}
		members := make([]model.TaskID, len(ids))
		for i, id := range ids {
			members[i] = model.TaskID(id)
		}
		groups = append(groups, model.GroupSpec{Name: fmt.Sprintf("group %d", line), Members: members})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read groups: %w", err)
	}
	return groups, nil
}
