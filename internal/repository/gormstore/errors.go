package gormstore

import (
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"docarchive/internal/repository"
)

// translate maps GORM and sqlite errors onto repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return repository.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return repository.ErrInvalidReference
	case strings.Contains(err.Error(), "CHECK constraint failed"):
		return repository.ErrInvalidValue
	default:
		return err
	}
}

func parseID(id string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
	if err != nil || n == 0 {
		return 0, repository.ErrInvalidID
	}
	return uint(n), nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
