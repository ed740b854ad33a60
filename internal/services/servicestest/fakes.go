// Package servicestest provides in-memory implementations of the service
// provider interfaces for transport-layer tests.
package servicestest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/geodesk/spatial-api/internal/geo"
	"github.com/geodesk/spatial-api/internal/models"
	"github.com/geodesk/spatial-api/internal/services"
)

var (
	_ services.UserServiceProvider    = (*FakeUserService)(nil)
	_ services.PointServiceProvider   = (*FakePointService)(nil)
	_ services.PolygonServiceProvider = (*FakePolygonService)(nil)
)

// FakeUserService keeps users in a map; passwords are stored in plaintext
// because nothing here leaves the test process.
type FakeUserService struct {
	mu        sync.Mutex
	seq       int64
	users     map[string]models.User
	passwords map[string]string
}

func NewFakeUserService() *FakeUserService {
	return &FakeUserService{
		users:     make(map[string]models.User),
		passwords: make(map[string]string),
	}
}

func (s *FakeUserService) Register(_ context.Context, username, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return models.User{}, models.ErrUsernameTaken
	}
	s.seq++
	user := models.User{ID: s.seq, Username: username, HashedPassword: "fake"}
	s.users[username] = user
	s.passwords[username] = password
	return user, nil
}

func (s *FakeUserService) Authenticate(_ context.Context, username, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[username]
	if !exists || s.passwords[username] != password {
		return models.User{}, models.ErrInvalidCredentials
	}
	return user, nil
}

func (s *FakeUserService) GetByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[username]
	if !exists {
		return models.User{}, models.ErrNotFound
	}
	return user, nil
}

// Count returns the number of stored users.
func (s *FakeUserService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// FakePointService validates geometry with the real codec and stores points in
// a map. Predicate queries return every stored point, in insertion order.
type FakePointService struct {
	mu     sync.Mutex
	seq    int64
	order  []int64
	points map[int64]models.Point
}

func NewFakePointService() *FakePointService {
	return &FakePointService{points: make(map[int64]models.Point)}
}

func (s *FakePointService) Create(_ context.Context, name, description string, location json.RawMessage) (models.Point, error) {
	loc, err := geo.DecodePoint(location)
	if err != nil {
		return models.Point{}, err
	}
	encoded, err := geo.Encode(loc)
	if err != nil {
		return models.Point{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	point := models.Point{ID: s.seq, Name: name, Description: description, Location: encoded}
	s.points[point.ID] = point
	s.order = append(s.order, point.ID)
	return point, nil
}

func (s *FakePointService) GetByID(_ context.Context, id int64) (models.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	point, exists := s.points[id]
	if !exists {
		return models.Point{}, models.ErrNotFound
	}
	return point, nil
}

func (s *FakePointService) List(_ context.Context, offset, limit int) ([]models.Point, error) {
	return s.all(), nil
}

func (s *FakePointService) Update(_ context.Context, id int64, name, description string, location json.RawMessage) (models.Point, error) {
	loc, err := geo.DecodePoint(location)
	if err != nil {
		return models.Point{}, err
	}
	encoded, err := geo.Encode(loc)
	if err != nil {
		return models.Point{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.points[id]; !exists {
		return models.Point{}, models.ErrNotFound
	}
	point := models.Point{ID: id, Name: name, Description: description, Location: encoded}
	s.points[id] = point
	return point, nil
}

func (s *FakePointService) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.points[id]; !exists {
		return models.ErrNotFound
	}
	delete(s.points, id)
	return nil
}

func (s *FakePointService) WithinPolygon(_ context.Context, polygon json.RawMessage) ([]models.Point, error) {
	if _, err := geo.DecodePolygon(polygon); err != nil {
		return nil, err
	}
	return s.all(), nil
}

func (s *FakePointService) Nearby(_ context.Context, point json.RawMessage, radiusMeters float64) ([]models.Point, error) {
	if _, err := geo.DecodePoint(point); err != nil {
		return nil, err
	}
	return s.all(), nil
}

func (s *FakePointService) all() []models.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	points := []models.Point{}
	for _, id := range s.order {
		if point, exists := s.points[id]; exists {
			points = append(points, point)
		}
	}
	return points
}

// FakePolygonService mirrors FakePointService for polygons.
type FakePolygonService struct {
	mu       sync.Mutex
	seq      int64
	order    []int64
	polygons map[int64]models.Polygon
}

func NewFakePolygonService() *FakePolygonService {
	return &FakePolygonService{polygons: make(map[int64]models.Polygon)}
}

func (s *FakePolygonService) Create(_ context.Context, name, description string, area json.RawMessage) (models.Polygon, error) {
	poly, err := geo.DecodePolygon(area)
	if err != nil {
		return models.Polygon{}, err
	}
	encoded, err := geo.Encode(poly)
	if err != nil {
		return models.Polygon{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	polygon := models.Polygon{ID: s.seq, Name: name, Description: description, Area: encoded}
	s.polygons[polygon.ID] = polygon
	s.order = append(s.order, polygon.ID)
	return polygon, nil
}

func (s *FakePolygonService) GetByID(_ context.Context, id int64) (models.Polygon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	polygon, exists := s.polygons[id]
	if !exists {
		return models.Polygon{}, models.ErrNotFound
	}
	return polygon, nil
}

func (s *FakePolygonService) List(_ context.Context, offset, limit int) ([]models.Polygon, error) {
	return s.all(), nil
}

func (s *FakePolygonService) Update(_ context.Context, id int64, name, description string, area json.RawMessage) (models.Polygon, error) {
	poly, err := geo.DecodePolygon(area)
	if err != nil {
		return models.Polygon{}, err
	}
	encoded, err := geo.Encode(poly)
	if err != nil {
		return models.Polygon{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.polygons[id]; !exists {
		return models.Polygon{}, models.ErrNotFound
	}
	polygon := models.Polygon{ID: id, Name: name, Description: description, Area: encoded}
	s.polygons[id] = polygon
	return polygon, nil
}

func (s *FakePolygonService) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.polygons[id]; !exists {
		return models.ErrNotFound
	}
	delete(s.polygons, id)
	return nil
}

func (s *FakePolygonService) ContainingPoint(_ context.Context, point json.RawMessage) ([]models.Polygon, error) {
	if _, err := geo.DecodePoint(point); err != nil {
		return nil, err
	}
	return s.all(), nil
}

func (s *FakePolygonService) all() []models.Polygon {
	s.mu.Lock()
	defer s.mu.Unlock()
	polygons := []models.Polygon{}
	for _, id := range s.order {
		if polygon, exists := s.polygons[id]; exists {
			polygons = append(polygons, polygon)
		}
	}
	return polygons
}
