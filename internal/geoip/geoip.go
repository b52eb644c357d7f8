// Package geoip resolves visitor addresses to a country and city using a
// MaxMind GeoLite2-City (or compatible) database.
package geoip

import (
	"fmt"
	"net"
	"sync"

	"github.com/oschwald/maxminddb-golang"
)

// cityRecord matches the subset of the GeoLite2-City structure we read.
type cityRecord struct {
	Country struct {
		ISOCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
}

// Locator looks addresses up in an open database. The zero value and a nil
// *Locator resolve nothing.
type Locator struct {
	db *maxminddb.Reader
	mu sync.RWMutex
}

// Open loads the database at path. An empty path returns a disabled Locator.
func Open(path string) (*Locator, error) {
	if path == "" {
		return &Locator{}, nil
	}
	db, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoIP database %s: %w", path, err)
	}
	return &Locator{db: db}, nil
}

// Enabled reports whether a database is loaded.
func (l *Locator) Enabled() bool {
	if l == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db != nil
}

// Locate returns the English country and city names for ip. Private,
// loopback and unparsable addresses, and misses, yield empty strings.
func (l *Locator) Locate(ip string) (country, city string) {
	if l == nil {
		return "", ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil || isPrivate(parsed) {
		return "", ""
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.db == nil {
		return "", ""
	}

	var rec cityRecord
	if err := l.db.Lookup(parsed, &rec); err != nil {
		return "", ""
	}
	country = rec.Country.Names["en"]
	if country == "" {
		country = rec.Country.ISOCode
	}
	return country, rec.City.Names["en"]
}

// Close releases the database.
func (l *Locator) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

func isPrivate(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
