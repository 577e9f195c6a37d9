package repo

import "gorm.io/gorm"

type GormRepo struct {
	DB *gorm.DB
}

// WithTx returns a repo bound to tx so the same queries can run inside a
// surrounding transaction.
func (r *GormRepo) WithTx(tx *gorm.DB) *GormRepo {
	return &GormRepo{DB: tx}
}
