package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	List(ctx context.Context, in ListInput) (ListResult, error)
	Get(ctx context.Context, id string) (Offer, error)
}
