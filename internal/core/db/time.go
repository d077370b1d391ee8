package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Time scans a timestamp column into a UTC time.Time.
// SQLite only reports a decltype for plain table columns, so values read through
// window-function subqueries arrive as text and are parsed here.
type Time struct {
	time.Time
}

// Scan implements sql.Scanner.
func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("db.Time: unsupported type %T", src)
	}
}

func (t *Time) parse(s string) error {
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("db.Time: cannot parse %q", s)
}
