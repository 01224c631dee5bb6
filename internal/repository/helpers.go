package repository

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseTime parses an RFC3339 column, returning the zero time for bad input.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var (
	idNodeOnce sync.Once
	idNode     *snowflake.Node
	idNodeErr  error
)

// nextID returns a time-ordered row ID. Single-process SQLite, so one node.
func nextID() (int64, error) {
	idNodeOnce.Do(func() {
		idNode, idNodeErr = snowflake.NewNode(1)
	})
	if idNodeErr != nil {
		return 0, fmt.Errorf("snowflake node: %w", idNodeErr)
	}
	return idNode.Generate().Int64(), nil
}
