package documents

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/ukydev/vehicle-service-history/internal/db"
	"github.com/ukydev/vehicle-service-history/internal/models"
)

// ProjectedHistory is a vehicle's service history in display order, newest
// first.
type ProjectedHistory []models.ServiceHistoryEntry

// Projector builds the render-ready service history for a vehicle.
type Projector struct {
	history db.ServiceHistoryReader
	staff   db.StaffReader
}

// NewProjector creates a history projector.
func NewProjector(history db.ServiceHistoryReader, staff db.StaffReader) *Projector {
	return &Projector{history: history, staff: staff}
}

// Project loads the vehicle's records, resolves service center and staff
// references to display names, and sorts by service date descending. Records
// with the same date keep their storage order.
func (p *Projector) Project(ctx context.Context, vehicleID int64) (ProjectedHistory, error) {
	records, err := p.history.FindServiceHistory(ctx, vehicleID)
	if err != nil {
		return nil, errors.Wrap(err, "load service history")
	}

	centers, err := p.history.FindServiceCentersByIDs(ctx, referencedIDs(records, func(r models.ServiceHistory) *int64 { return r.ServiceCenterID }))
	if err != nil {
		return nil, errors.Wrap(err, "load service centers")
	}
	centerNames := lo.SliceToMap(centers, func(c models.ServiceCenter) (int64, string) { return c.ID, c.StationName })

	users, err := p.staff.FindUsersByIDs(ctx, referencedIDs(records, func(r models.ServiceHistory) *int64 { return r.ServicedByUserID }))
	if err != nil {
		return nil, errors.Wrap(err, "load staff users")
	}
	userNames := lo.SliceToMap(users, func(u models.User) (int64, string) { return u.ID, u.FullName() })

	projected := lo.Map(records, func(r models.ServiceHistory, _ int) models.ServiceHistoryEntry {
		return models.ServiceHistoryEntry{
			ServiceHistoryID:          r.ID,
			VehicleID:                 r.VehicleID,
			ServiceType:               r.ServiceType,
			Description:               r.Description,
			Cost:                      r.Cost,
			ServiceDate:               r.ServiceDate,
			Mileage:                   r.Mileage,
			IsVerified:                r.IsVerified,
			ServiceCenterName:         lookupName(centerNames, r.ServiceCenterID),
			ServicedByName:            lookupName(userNames, r.ServicedByUserID),
			ExternalServiceCenterName: r.ExternalServiceCenterName,
			ReceiptDocumentPath:       r.ReceiptDocumentPath,
		}
	})
	slices.SortStableFunc(projected, func(a, b models.ServiceHistoryEntry) int {
		return b.ServiceDate.Compare(a.ServiceDate)
	})
	return projected, nil
}

func referencedIDs(records []models.ServiceHistory, ref func(models.ServiceHistory) *int64) []int64 {
	return lo.Uniq(lo.FilterMap(records, func(r models.ServiceHistory, _ int) (int64, bool) {
		id := ref(r)
		if id == nil {
			return 0, false
		}
		return *id, true
	}))
}

// lookupName returns nil when there is no reference or the referenced
// entity no longer exists.
func lookupName(names map[int64]string, id *int64) *string {
	if id == nil {
		return nil
	}
	name, ok := names[*id]
	if !ok {
		return nil
	}
	return &name
}
