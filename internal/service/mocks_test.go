package service

import (
	"time"

	"github.com/narenratnam1/DaanarRX-sub001/internal/model"
	"github.com/narenratnam1/DaanarRX-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// -- Mock repositories --

type mockUnitRepo struct {
	units map[string]*model.Unit
	txs   []*model.Transaction

	findErr   error // forced store fault on reads
	commitErr error // forced store fault on commits
}

func newMockUnitRepo(units ...model.Unit) *mockUnitRepo {
	m := &mockUnitRepo{units: make(map[string]*model.Unit)}
	for i := range units {
		u := units[i]
		m.units[u.DaanaID] = &u
	}
	return m
}

func (m *mockUnitRepo) FindAll() ([]model.Unit, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]model.Unit, 0, len(m.units))
	for _, u := range m.units {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUnitRepo) FindByDaanaID(daanaID string) (*model.Unit, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.units[daanaID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUnitRepo) FindByQRPayload(payload string) (*model.Unit, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.units {
		if u.QRPayload == payload {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnitRepo) FindExpiringBefore(cutoff string) ([]model.Unit, error) {
	var out []model.Unit
	for _, u := range m.units {
		if u.ExpDate < cutoff && (u.Status == model.StatusInStock || u.Status == model.StatusPartial) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUnitRepo) CommitCheckIn(unit *model.Unit, rec *model.Transaction) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	cp := *unit
	m.units[unit.DaanaID] = &cp
	m.txs = append(m.txs, rec)
	return nil
}

func (m *mockUnitRepo) CommitDispense(daanaID string, quantity, remaining int, rec *model.Transaction) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	u, ok := m.units[daanaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if u.QtyTotal != quantity+remaining {
		return repository.ErrUnitConflict
	}
	if remaining == 0 {
		delete(m.units, daanaID)
	} else {
		u.QtyTotal = remaining
		u.Status = model.StatusPartial
	}
	m.txs = append(m.txs, rec)
	return nil
}

func (m *mockUnitRepo) CommitAdjust(daanaID string, newQty int, rec *model.Transaction) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	u, ok := m.units[daanaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if newQty == 0 {
		delete(m.units, daanaID)
	} else {
		u.QtyTotal = newQty
	}
	m.txs = append(m.txs, rec)
	return nil
}

func (m *mockUnitRepo) CommitMove(daanaID string, loc *model.Location, rec *model.Transaction) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	u, ok := m.units[daanaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LocationID = &loc.ID
	u.LocationName = loc.Name
	m.txs = append(m.txs, rec)
	return nil
}

// lastTx returns the most recent audit record, or nil
func (m *mockUnitRepo) lastTx() *model.Transaction {
	if len(m.txs) == 0 {
		return nil
	}
	return m.txs[len(m.txs)-1]
}

type mockTransactionRepo struct {
	txs []model.Transaction
}

func (m *mockTransactionRepo) FindAll() ([]model.Transaction, error) {
	return m.txs, nil
}

func (m *mockTransactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	for i := range m.txs {
		if m.txs[i].ID == id {
			return &m.txs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTransactionRepo) FindByDaanaID(daanaID string) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, tx := range m.txs {
		if tx.DaanaID == daanaID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *mockTransactionRepo) GetStockMovement(startDate, endDate time.Time) ([]repository.StockMovementData, error) {
	return nil, nil
}

func (m *mockTransactionRepo) GetInventoryStats(expiryCutoff string) (*repository.InventoryStats, error) {
	return &repository.InventoryStats{}, nil
}

type mockLocationRepo struct {
	locations map[uuid.UUID]*model.Location
}

func newMockLocationRepo(locations ...model.Location) *mockLocationRepo {
	m := &mockLocationRepo{locations: make(map[uuid.UUID]*model.Location)}
	for i := range locations {
		loc := locations[i]
		m.locations[loc.ID] = &loc
	}
	return m
}

func (m *mockLocationRepo) FindAll() ([]model.Location, error) {
	out := make([]model.Location, 0, len(m.locations))
	for _, loc := range m.locations {
		out = append(out, *loc)
	}
	return out, nil
}

func (m *mockLocationRepo) FindByID(id uuid.UUID) (*model.Location, error) {
	loc, ok := m.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return loc, nil
}

func (m *mockLocationRepo) Create(location *model.Location) error {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	m.locations[location.ID] = location
	return nil
}

func (m *mockLocationRepo) Update(location *model.Location) error {
	m.locations[location.ID] = location
	return nil
}

func (m *mockLocationRepo) Delete(id uuid.UUID) error {
	delete(m.locations, id)
	return nil
}

func (m *mockLocationRepo) SeedDefaults() error { return nil }

type mockLotRepo struct {
	lots map[uuid.UUID]*model.Lot
}

func newMockLotRepo(lots ...model.Lot) *mockLotRepo {
	m := &mockLotRepo{lots: make(map[uuid.UUID]*model.Lot)}
	for i := range lots {
		lot := lots[i]
		m.lots[lot.ID] = &lot
	}
	return m
}

func (m *mockLotRepo) FindAll() ([]model.Lot, error) {
	out := make([]model.Lot, 0, len(m.lots))
	for _, lot := range m.lots {
		out = append(out, *lot)
	}
	return out, nil
}

func (m *mockLotRepo) FindByID(id uuid.UUID) (*model.Lot, error) {
	lot, ok := m.lots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lot, nil
}

func (m *mockLotRepo) FindByCode(code string) (*model.Lot, error) {
	for _, lot := range m.lots {
		if lot.Code == code {
			return lot, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLotRepo) Create(lot *model.Lot) error {
	if lot.ID == uuid.Nil {
		lot.ID = uuid.New()
	}
	m.lots[lot.ID] = lot
	return nil
}

func (m *mockLotRepo) Update(lot *model.Lot) error {
	m.lots[lot.ID] = lot
	return nil
}

func (m *mockLotRepo) Delete(id uuid.UUID) error {
	delete(m.lots, id)
	return nil
}
