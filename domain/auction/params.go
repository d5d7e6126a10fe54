package auction

import (
	"github.com/x-xyz/settlement/domain"
)

type FindAllOptions struct {
	SortDir *domain.SortDir `bson:"-"`
	Offset  *int32          `bson:"-"`
	Limit   *int32          `bson:"-"`
	Owner   *domain.Address `bson:"owner,omitempty"`
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

// WithSort orders by id
func WithSort(sortdir domain.SortDir) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SortDir = &sortdir
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		if offset < 0 || limit < 0 {
			return domain.ErrInvalidInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithOwner(owner domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		lower := owner.ToLower()
		options.Owner = &lower
		return nil
	}
}
