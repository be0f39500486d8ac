package allocator

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/me/rota/pkg/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func worker(name string, size model.SizeClass, end model.EnduranceClass) *model.Worker {
	return &model.Worker{Name: name, Size: size, Endurance: end}
}

func names(ws []*model.Worker) []string {
	return workerNames(ws)
}

func equalNames(got []*model.Worker, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].Name != want[i] {
			return false
		}
	}
	return true
}

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}
