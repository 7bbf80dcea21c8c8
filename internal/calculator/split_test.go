package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func owed(splits []models.SplitInput) map[int64]string {
	out := make(map[int64]string, len(splits))
	for _, s := range splits {
		out[s.UserID] = models.FormatMoney(s.OwedAmount)
	}
	return out
}

func sum(splits []models.SplitInput) decimal.Decimal {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.OwedAmount)
	}
	return total
}

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		users   []int64
		want    map[int64]string
		wantErr bool
	}{
		{
			name:  "even three-way split",
			total: "90.00",
			users: []int64{1, 2, 3},
			want:  map[int64]string{1: "30.00", 2: "30.00", 3: "30.00"},
		},
		{
			name:  "leftover cent goes to lowest id",
			total: "100.00",
			users: []int64{3, 1, 2},
			want:  map[int64]string{1: "33.34", 2: "33.33", 3: "33.33"},
		},
		{
			name:  "two leftover cents",
			total: "0.05",
			users: []int64{1, 2, 3},
			want:  map[int64]string{1: "0.02", 2: "0.02", 3: "0.01"},
		},
		{
			name:    "no participants should error",
			total:   "10.00",
			users:   []int64{},
			wantErr: true,
		},
		{
			name:    "duplicate participants should error",
			total:   "10.00",
			users:   []int64{1, 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := SplitEqually(d(tt.total), tt.users)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitEqually() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got := owed(splits)
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("user %d owes %s, want %s", id, got[id], want)
				}
			}
			if !sum(splits).Equal(d(tt.total)) {
				t.Errorf("splits sum to %s, want %s", sum(splits), tt.total)
			}
		})
	}
}

func TestSplitByPercentage(t *testing.T) {
	splits, err := SplitByPercentage(d("200.00"), map[int64]decimal.Decimal{
		1: d("50"),
		2: d("30"),
		3: d("20"),
	})
	if err != nil {
		t.Fatalf("SplitByPercentage failed: %v", err)
	}
	got := owed(splits)
	want := map[int64]string{1: "100.00", 2: "60.00", 3: "40.00"}
	for id, w := range want {
		if got[id] != w {
			t.Errorf("user %d owes %s, want %s", id, got[id], w)
		}
	}

	_, err = SplitByPercentage(d("200.00"), map[int64]decimal.Decimal{1: d("50"), 2: d("40")})
	if err == nil {
		t.Error("expected error when percentages do not add up to 100")
	}
}

func TestSplitByShares(t *testing.T) {
	splits, err := SplitByShares(d("10.00"), map[int64]int64{1: 2, 2: 1})
	if err != nil {
		t.Fatalf("SplitByShares failed: %v", err)
	}
	got := owed(splits)
	// 10.00 × 2/3 = 6.666…, 10.00 × 1/3 = 3.333…; the extra cent goes to the larger remainder.
	if got[1] != "6.67" || got[2] != "3.33" {
		t.Errorf("got %v, want 1:6.67 2:3.33", got)
	}
	if !sum(splits).Equal(d("10.00")) {
		t.Errorf("splits sum to %s, want 10.00", sum(splits))
	}

	if _, err := SplitByShares(d("10.00"), map[int64]int64{1: 0}); err == nil {
		t.Error("expected error for zero shares")
	}
}

func TestSplitByItems(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		items   []Item
		want    map[int64]string
		wantErr bool
	}{
		{
			name:  "simple two-person split with tax",
			total: "33.00",
			items: []Item{
				{Description: "Pizza", Amount: d("20.00"), AssignedTo: []int64{1, 2}},
				{Description: "Salad", Amount: d("10.00"), AssignedTo: []int64{1}},
			},
			// Alice: subtotal 20, tax 2, total 22. Bob: subtotal 10, tax 1, total 11.
			want: map[int64]string{1: "22.00", 2: "11.00"},
		},
		{
			name:  "no tax",
			total: "30.00",
			items: []Item{
				{Description: "Steak", Amount: d("30.00"), AssignedTo: []int64{5}},
			},
			want: map[int64]string{5: "30.00"},
		},
		{
			name:    "unassigned item should error",
			total:   "10.00",
			items:   []Item{{Description: "Item", Amount: d("10.00")}},
			wantErr: true,
		},
		{
			name:    "total below subtotal should error",
			total:   "5.00",
			items:   []Item{{Description: "Item", Amount: d("10.00"), AssignedTo: []int64{1}}},
			wantErr: true,
		},
		{
			name:    "no items should error",
			total:   "5.00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := SplitByItems(d(tt.total), tt.items)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitByItems() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got := owed(splits)
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("user %d owes %s, want %s", id, got[id], want)
				}
			}
			if !sum(splits).Equal(d(tt.total)) {
				t.Errorf("splits sum to %s, want %s", sum(splits), tt.total)
			}
		})
	}
}
