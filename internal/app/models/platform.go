package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Platform is an external coding platform a student can link.
type Platform string

const (
	PlatformLeetCode   Platform = "leetcode"
	PlatformCodeforces Platform = "codeforces"
	PlatformGitHub     Platform = "github"
	PlatformHackerRank Platform = "hackerrank"
)

var profileURLTemplates = map[Platform]string{
	PlatformLeetCode:   "https://leetcode.com/%s",
	PlatformCodeforces: "https://codeforces.com/profile/%s",
	PlatformGitHub:     "https://github.com/%s",
	PlatformHackerRank: "https://www.hackerrank.com/profile/%s",
}

// SupportedPlatforms returns the platform names in sorted order.
func SupportedPlatforms() []string {
	out := make([]string, 0, len(profileURLTemplates))
	for p := range profileURLTemplates {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// ParsePlatform normalizes s and checks it against the supported platforms.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	_, ok := profileURLTemplates[p]
	return p, ok
}

// ProfileURL renders the public profile URL for username.
func (p Platform) ProfileURL(username string) string {
	tmpl, ok := profileURLTemplates[p]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tmpl, username)
}

// PlatformAccount is a student's account on one platform.
type PlatformAccount struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	Platform   Platform  `json:"platform" db:"platform"`
	Username   string    `json:"username" db:"username"`
	ProfileURL string    `json:"profileUrl" db:"profile_url"`
	IsActive   bool      `json:"isActive" db:"is_active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
