package loyalty

import "github.com/google/uuid"

// Reward is a redeemable catalog item with its own stock counter.
type Reward struct {
	id         uuid.UUID
	name       string
	costPoints int
	stock      int
}

func ReconstructReward(id uuid.UUID, name string, costPoints, stock int) *Reward {
	return &Reward{
		id:         id,
		name:       name,
		costPoints: costPoints,
		stock:      stock,
	}
}

func (r *Reward) ID() uuid.UUID   { return r.id }
func (r *Reward) Name() string    { return r.name }
func (r *Reward) CostPoints() int { return r.costPoints }
func (r *Reward) Stock() int      { return r.stock }
