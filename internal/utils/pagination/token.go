package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// DefaultLimit and MaxLimit bound the page size of list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// EntryCursor is the keyset position of the last journal entry returned.
// Entries are listed newest first on (entry_date DESC, entry_id DESC).
type EntryCursor struct {
	EntryDate time.Time
	EntryID   int64
}

// EncodeToken creates an opaque base64 token from a journal entry date and id.
func EncodeToken(cursor EntryCursor) string {
	tokenStr := fmt.Sprintf("%s|%d", cursor.EntryDate.Format(timeFormat), cursor.EntryID)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (EntryCursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}
	entryID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || entryID <= 0 {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (entry id parse)")
	}

	return EntryCursor{EntryDate: entryDate, EntryID: entryID}, nil
}

// After reports whether an entry at (date, id) comes after the cursor in listing order.
func (c EntryCursor) After(date time.Time, id int64) bool {
	if !date.Equal(c.EntryDate) {
		return date.Before(c.EntryDate)
	}
	return id < c.EntryID
}

// NormalizeLimit clamps a requested page size to [1, MaxLimit], using DefaultLimit for non-positive values.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
