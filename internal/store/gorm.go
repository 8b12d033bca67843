package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tacosmaster/taqueria-api/internal/models"
)

// Gorm is the MySQL-backed OrderStore.
type Gorm struct {
	db  *gorm.DB
	hub *Hub
}

// OpenGorm connects to MySQL with the given DSN, migrates the orders
// and order_items tables, and returns a store publishing to hub.
func OpenGorm(dsn string, hub *Hub) (*Gorm, error) {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := gdb.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		return nil, err
	}

	return &Gorm{db: gdb, hub: hub}, nil
}

// CreateOrder writes the order and its items in one transaction. A
// failed item write rolls back the order row, so a placed order always
// has its line items.
func (g *Gorm) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	g.hub.Publish(Event{Type: EventInserted, Order: *order})
	return nil
}

func (g *Gorm) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := g.db.WithContext(ctx).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (g *Gorm) ListItems(ctx context.Context) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := g.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (g *Gorm) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus touches only the status (and updated_at) column. The
// WHERE clause carries the concurrency guard; zero rows affected on an
// existing order means another writer got there first.
func (g *Gorm) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	q := g.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id)
	if from != "" {
		q = q.Where("status = ?", from)
	} else {
		q = q.Where("status NOT IN ?", []models.OrderStatus{models.StatusDelivered, models.StatusCancelled})
	}

	result := q.Updates(map[string]any{
		"status":     to,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := g.GetOrder(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrStatusConflict
	}

	order, err := g.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	g.hub.Publish(Event{Type: EventUpdated, Order: *order})
	return order, nil
}

func (g *Gorm) DeleteOrder(ctx context.Context, id string) error {
	order, err := g.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	g.hub.Publish(Event{Type: EventDeleted, Order: *order})
	return nil
}
