package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// parseTTL parses a TTL string like "7d", "24h", "30m" into a duration.
var ttlPattern = regexp.MustCompile(`^(\d+)([dhms])$`)

func parseTTL(s string) (time.Duration, error) {
	m := ttlPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid format %q (use e.g. 7d, 24h, 30m, 60s)", s)
	}
	n, _ := strconv.Atoi(m[1])
	switch m[2] {
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "s":
		return time.Duration(n) * time.Second, nil
	}
	return 0, fmt.Errorf("unknown unit %q", m[2])
}

// expiryFromFlags resolves the --ttl / --expires-at pair into an
// optional absolute expiration.
func expiryFromFlags(ttl, expiresAt string) (*time.Time, error) {
	if ttl != "" && expiresAt != "" {
		return nil, fmt.Errorf("--ttl and --expires-at are mutually exclusive")
	}
	if ttl != "" {
		d, err := parseTTL(ttl)
		if err != nil {
			return nil, err
		}
		t := time.Now().UTC().Add(d)
		return &t, nil
	}
	if expiresAt != "" {
		t, err := time.Parse(time.RFC3339, expiresAt)
		if err != nil {
			return nil, fmt.Errorf("invalid --expires-at: %w", err)
		}
		return &t, nil
	}
	return nil, nil
}
