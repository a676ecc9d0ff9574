package gormstorage_test

import (
	"github.com/d2assist/d2assist/internal/storage"
	gormstorage "github.com/d2assist/d2assist/internal/storage/gorm"
)

// Compile-time interface check
var _ storage.Backend = (*gormstorage.Backend)(nil)
