package utils

import (
	"fmt"
	"math/rand"
	"openmrs-billing-e2e/internal/pkg/constvars"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func GenerateRunID() string {
	return uuid.NewString()
}

// GenerateReferenceNumber builds a payment reference such as REF-1718000000000.
func GenerateReferenceNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixMilli())
}

// GenerateRandomName appends a number below bound to prefix so parallel runs
// do not collide on patient names.
func GenerateRandomName(prefix string, bound int) string {
	return fmt.Sprintf("%s%d", prefix, rand.Intn(bound))
}

func GenerateArtifactName(caseName, stepName string) string {
	timestamp := time.Now().Format("20060102_150405.000000000")
	return fmt.Sprintf("%s_%s_%s%s", Slugify(caseName), Slugify(stepName), timestamp, constvars.ArtifactScreenshotExtension)
}

func Slugify(value string) string {
	var builder strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastDash = false
		case !lastDash && builder.Len() > 0:
			builder.WriteRune('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(builder.String(), "-")
}
