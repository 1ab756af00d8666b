package orchestrator

import (
	"context"
	"errors"

	"github.com/restaurant-roulette/internal/domain"
)

// ErrPermissionDenied - пользователь (или окружение) не разрешил определить местоположение
var ErrPermissionDenied = errors.New("location permission denied")

// ErrLocationUnsupported - источник местоположения не настроен
var ErrLocationUnsupported = errors.New("location is not supported")

// Locator - источник текущих координат устройства.
// Любая ошибка трактуется как отказ в доступе.
type Locator interface {
	Locate(ctx context.Context) (domain.Coordinates, error)
}

// LocatorFunc - адаптер функции к Locator
type LocatorFunc func(ctx context.Context) (domain.Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (domain.Coordinates, error) {
	return f(ctx)
}

// StaticLocator всегда возвращает заданные координаты
type StaticLocator struct {
	Coordinates domain.Coordinates
}

func (l StaticLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}
	return l.Coordinates, nil
}
