package reference

import (
	"encoding/hex"
	"strconv"
	"strings"

	"rihla/shared/timezone"

	"github.com/google/uuid"
)

// Generator produces booking references such as RHL-LX3K9T2M-A1B2C3D4.
// The timestamp segment keeps references roughly sortable while the
// random suffix makes collisions within the same millisecond unlikely.
// Uniqueness is still enforced by the database, callers retry on a
// duplicate.
type Generator interface {
	Generate() string
}

type generatorImpl struct {
	prefix string
}

func New(prefix string) Generator {
	return &generatorImpl{prefix: prefix}
}

func (g *generatorImpl) Generate() string {
	millis := timezone.Now().UnixMilli()
	timePart := strings.ToUpper(strconv.FormatInt(millis, 36))

	id := uuid.New()
	randomPart := strings.ToUpper(hex.EncodeToString(id[:4]))

	return g.prefix + "-" + timePart + "-" + randomPart
}
