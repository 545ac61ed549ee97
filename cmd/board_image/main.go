package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/service_plan/internal/clock"
	"github.com/Freeeeeet/service_plan/internal/grid"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/render"
	"github.com/Freeeeeet/service_plan/internal/store"
	"github.com/Freeeeeet/service_plan/internal/topology"
)

func main() {
	out := flag.String("out", "board.png", "куда сохранить картинку")
	flag.Parse()

	now := time.Now()
	date := model.FormatDate(now)
	topo := topology.Default()

	// Создаем тестовые записи в памяти
	mem := store.NewMemory(clock.NewSystem())
	for _, nb := range sampleBookings(date) {
		if _, err := mem.Create(context.Background(), nb); err != nil {
			fmt.Printf("Ошибка создания записи: %v\n", err)
			os.Exit(1)
		}
	}

	layout := grid.Layout(date, topo, mem.Snapshot())

	imageData, err := render.BoardImage(layout, topo, render.Options{
		Now:   now,
		Title: "Тестовая доска",
	})
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение сохранено в %s (%d байт)\n", *out, len(imageData))
	fmt.Printf("📊 Записей на доске: %d, вне сетки: %d\n", layout.BlockCount(), len(layout.Unplaced))
}

func sampleBookings(date string) []model.NewBooking {
	at := func(h, m int) model.TimeOfDay { return model.NewTimeOfDay(h, m) }

	forms := []model.BookingForm{
		{StationID: "lift-1", StartTime: at(9, 0), DurationMinutes: 120, CarModel: "Toyota Camry", Description: "ТО-60, замена масла и фильтров", ClientName: "Иван Петров", ClientPhone: "+375 29 123-45-67", Status: model.StatusInProgress},
		{StationID: "lift-1", StartTime: at(13, 30), DurationMinutes: 30, CarModel: "VW Polo", Description: "Шиномонтаж", Status: model.StatusScheduled},
		{StationID: "lift-2", StartTime: at(8, 0), DurationMinutes: 240, CarModel: "BMW X5", Description: "Ремонт подвески", ClientName: "Олег", ClientPhone: "+375 33 765-43-21", Status: model.StatusProblem},
		{StationID: "lift-3", StartTime: at(11, 0), DurationMinutes: 90, CarModel: "Skoda Octavia", Description: "Диагностика ходовой", Status: model.StatusWaiting},
		{StationID: "pit-1", StartTime: at(10, 0), DurationMinutes: 60, CarModel: "Renault Logan", Description: "Не заводится, проверить стартер", Status: model.StatusReady},
		{StationID: "pit-2", StartTime: at(17, 30), DurationMinutes: 180, CarModel: "Ford Transit", Description: "Замена сцепления, выходит за смену", Status: model.StatusNeutral},
		{StationID: "wash", StartTime: at(15, 0), DurationMinutes: 60, CarModel: "Kia Rio", Description: "Развал-схождение", Status: model.StatusReady},
		{StationID: "lift-9", StartTime: at(12, 0), DurationMinutes: 60, CarModel: "Lada Vesta", Description: "Пост удалён из топологии", Status: model.StatusScheduled},
	}

	out := make([]model.NewBooking, 0, len(forms))
	for _, f := range forms {
		out = append(out, model.NewBooking{Form: f, Date: date, MasterID: "sample"})
	}
	return out
}
