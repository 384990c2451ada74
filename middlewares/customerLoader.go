package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/verdipos/verdi_backend/models"
	"gorm.io/gorm"
)

type customerReader struct {
	db *gorm.DB
}

// getCustomers answers in the order of ids; unknown ids resolve to nil without an error.
func (r *customerReader) getCustomers(ctx context.Context, ids []int) []*dataloader.Result[*models.Customer] {
	var results []*models.Customer
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Customer](len(ids), err)
	}

	resultMap := make(map[int]*models.Customer, len(results))
	for _, result := range results {
		resultMap[result.ID] = result
	}
	loaderResults := make([]*dataloader.Result[*models.Customer], 0, len(ids))
	for _, id := range ids {
		loaderResults = append(loaderResults, &dataloader.Result[*models.Customer]{Data: resultMap[id]})
	}
	return loaderResults
}

func GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	loaders := For(ctx)
	return loaders.customerLoader.Load(ctx, id)()
}

func GetCustomers(ctx context.Context, ids []int) ([]*models.Customer, []error) {
	loaders := For(ctx)
	return loaders.customerLoader.LoadMany(ctx, ids)()
}

// CustomerNames maps the given customer ids to names, skipping nil ids and unknown customers.
func CustomerNames(ctx context.Context, ids []*int) (map[int]string, error) {
	seen := make(map[int]struct{})
	var unique []int
	for _, id := range ids {
		if id == nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		unique = append(unique, *id)
	}
	names := make(map[int]string, len(unique))
	if len(unique) == 0 {
		return names, nil
	}

	customers, errs := GetCustomers(ctx, unique)
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for _, customer := range customers {
		if customer != nil {
			names[customer.ID] = customer.Name
		}
	}
	return names, nil
}
