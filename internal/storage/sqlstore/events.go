package sqlstore

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/storage"
)

func (s *Store) selectEvents() sq.SelectBuilder {
	return s.sb.Select(eventColumns...).From(eventsTable)
}

func (s *Store) AddEvent(e models.Event) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if e.CreatedAt == "" {
		e.CreatedAt = storage.Now()
	}

	q := s.sb.Insert(eventsTable).
		Columns(eventColumns[1:]...).
		Values(e.Title, e.Notes, e.Date, e.StartTime, e.EndTime,
			recurrenceOrNone(e.Recurrence), e.RecurrenceEndDate, e.CreatedAt)
	return s.insert(q)
}

func (s *Store) GetEvent(id int64) (models.Event, error) {
	if err := s.ready(); err != nil {
		return models.Event{}, err
	}
	var e models.Event
	err := s.get(&e, s.selectEvents().Where(sq.Eq{"id": id}), "event", id)
	return e, err
}

func (s *Store) GetAllEvents() ([]models.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var events []models.Event
	err := s.selectAll(&events, s.selectEvents().OrderBy("date", "start_time", "id"))
	return events, err
}

func (s *Store) GetEventsAnchoredOn(date string) ([]models.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var events []models.Event
	q := s.selectEvents().
		Where(sq.Eq{"date": date, "recurrence_type": string(models.RecurrenceNone)}).
		OrderBy("start_time", "id")
	err := s.selectAll(&events, q)
	return events, err
}

func (s *Store) GetRecurringEvents() ([]models.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var events []models.Event
	q := s.selectEvents().
		Where(sq.NotEq{"recurrence_type": string(models.RecurrenceNone)}).
		OrderBy("start_time", "id")
	err := s.selectAll(&events, q)
	return events, err
}

func (s *Store) UpdateEvent(e models.Event) error {
	if err := s.ready(); err != nil {
		return err
	}
	q := s.sb.Update(eventsTable).
		Set("title", e.Title).
		Set("notes", e.Notes).
		Set("date", e.Date).
		Set("start_time", e.StartTime).
		Set("end_time", e.EndTime).
		Set("recurrence_type", recurrenceOrNone(e.Recurrence)).
		Set("recurrence_end_date", e.RecurrenceEndDate).
		Where(sq.Eq{"id": e.ID})
	return s.execOne(q, "event", e.ID)
}

func (s *Store) DeleteEvent(id int64) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.execOne(s.sb.Delete(eventsTable).Where(sq.Eq{"id": id}), "event", id)
}
