package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/models"
)

// Item is a line item shared equally by the users assigned to it.
type Item struct {
	Description string
	Amount      decimal.Decimal
	AssignedTo  []int64
}

var oneHundred = decimal.NewFromInt(100)

// SplitEqually divides total into equal shares. Leftover cents go one each
// to the lowest user IDs, so the shares always sum to total exactly.
func SplitEqually(total decimal.Decimal, userIDs []int64) ([]models.SplitInput, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	weights := make(map[int64]decimal.Decimal, len(userIDs))
	for _, id := range userIDs {
		weights[id] = decimal.NewFromInt(1)
	}
	if len(weights) != len(userIDs) {
		return nil, fmt.Errorf("participants must be unique")
	}
	return allocate(total, weights)
}

// SplitByPercentage assigns each user the given percentage of total.
// Percentages must add up to exactly 100.
func SplitByPercentage(total decimal.Decimal, percentages map[int64]decimal.Decimal) ([]models.SplitInput, error) {
	if len(percentages) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	sum := decimal.Zero
	for id, pct := range percentages {
		if !pct.IsPositive() {
			return nil, fmt.Errorf("percentage for user %d must be positive", id)
		}
		sum = sum.Add(pct)
	}
	if !sum.Equal(oneHundred) {
		return nil, fmt.Errorf("percentages add up to %s, want 100", sum.String())
	}
	return allocate(total, percentages)
}

// SplitByShares divides total proportionally to integer share counts
// (e.g., 2 shares for a couple, 1 for a single person).
func SplitByShares(total decimal.Decimal, shares map[int64]int64) ([]models.SplitInput, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	weights := make(map[int64]decimal.Decimal, len(shares))
	for id, n := range shares {
		if n <= 0 {
			return nil, fmt.Errorf("shares for user %d must be positive", id)
		}
		weights[id] = decimal.NewFromInt(n)
	}
	return allocate(total, weights)
}

// SplitByItems computes each user's share from the items assigned to them.
// Each item is split equally among its assignees; the difference between the
// bill total and the item subtotal (tax, tip, fees) is distributed in
// proportion to each user's item subtotal:
//
//	person_total = person_subtotal × (total / subtotal)
func SplitByItems(total decimal.Decimal, items []Item) ([]models.SplitInput, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("must have at least one item")
	}

	subtotals := make(map[int64]decimal.Decimal)
	for _, item := range items {
		if len(item.AssignedTo) == 0 {
			return nil, fmt.Errorf("item %q is not assigned to anyone", item.Description)
		}
		if !item.Amount.IsPositive() {
			return nil, fmt.Errorf("item %q must have a positive amount", item.Description)
		}
		perPerson, err := SplitEqually(item.Amount, item.AssignedTo)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", item.Description, err)
		}
		for _, share := range perPerson {
			subtotals[share.UserID] = subtotals[share.UserID].Add(share.OwedAmount)
		}
	}

	subtotal := decimal.Zero
	for _, s := range subtotals {
		subtotal = subtotal.Add(s)
	}
	if total.LessThan(subtotal) {
		return nil, fmt.Errorf("total %s is less than item subtotal %s",
			models.FormatMoney(total), models.FormatMoney(subtotal))
	}

	return allocate(total, subtotals)
}

// allocate distributes total, in cents, proportionally to weights using the
// largest-remainder method. Cents left over after flooring go to the largest
// fractional remainders, ties broken by lower user ID. Output is sorted by
// user ID and sums to total exactly.
func allocate(total decimal.Decimal, weights map[int64]decimal.Decimal) ([]models.SplitInput, error) {
	totalCents, err := models.ToCents(total)
	if err != nil {
		return nil, err
	}
	if totalCents <= 0 {
		return nil, fmt.Errorf("total must be positive")
	}

	ids := make([]int64, 0, len(weights))
	sumWeights := decimal.Zero
	for id, w := range weights {
		ids = append(ids, id)
		sumWeights = sumWeights.Add(w)
	}
	if !sumWeights.IsPositive() {
		return nil, fmt.Errorf("weights must be positive")
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	cents := make([]int64, len(ids))
	fractions := make([]decimal.Decimal, len(ids))
	var assigned int64
	for i, id := range ids {
		exact := decimal.NewFromInt(totalCents).Mul(weights[id]).Div(sumWeights)
		floor := exact.Floor()
		cents[i] = floor.IntPart()
		fractions[i] = exact.Sub(floor)
		assigned += cents[i]
	}

	order := make([]int, len(ids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fractions[order[a]].GreaterThan(fractions[order[b]])
	})
	for k := int64(0); k < totalCents-assigned; k++ {
		cents[order[int(k)%len(order)]]++
	}

	splits := make([]models.SplitInput, 0, len(ids))
	for i, id := range ids {
		if cents[i] == 0 {
			continue
		}
		splits = append(splits, models.SplitInput{UserID: id, OwedAmount: models.FromCents(cents[i])})
	}
	return splits, nil
}
