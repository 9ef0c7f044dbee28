package postgres

import (
	"context"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/internal/domain/repository"
)

type EventRepository struct {
	pool Pool
}

func NewEventRepository(pool Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	var e entity.Event
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, COALESCE(location, ''), date,
		       COALESCE(to_char(start_time, 'HH24:MI'), ''), COALESCE(to_char(end_time, 'HH24:MI'), ''),
		       capacity, type, COALESCE(description, ''), COALESCE(image_url, '')
		FROM events
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Name, &e.Location, &e.Date, &e.StartTime, &e.EndTime,
		&e.Capacity, &e.Type, &e.Description, &e.ImageURL)
	if err != nil {
		return nil, translate(err, "event not found")
	}
	return &e, nil
}

var _ repository.EventRepository = (*EventRepository)(nil)
