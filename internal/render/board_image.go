// Package render рисует доску дня в PNG для отправки в чат.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/service_plan/internal/grid"
	"github.com/Freeeeeet/service_plan/internal/model"
	"github.com/Freeeeeet/service_plan/internal/topology"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Константы размеров и отступов
const (
	imageWidth        = 1400
	imageHeight       = 1000
	headerHeight      = 110
	footerHeight      = 40
	leftLabelsWidth   = 70
	columnPaddingX    = 4
	minBlockHeight    = 10.0
	blockBorderRadius = 5.0
	shadowOffset      = 2.0
)

// Константы шрифтов
const (
	titleFontSize     = 26.0
	stationFontSize   = 16.0
	timeLabelFontSize = 14.0
	blockFontSize     = 13.0
	footerFontSize    = 14.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{40, 44, 52, 230}
	timeLabelColor   = color.RGBA{110, 115, 120, 220}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	halfHourColor    = color.NRGBA{200, 200, 200, 255}
	evenColumnColor  = color.NRGBA{252, 252, 252, 255}
	oddColumnColor   = color.NRGBA{238, 240, 243, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}
	blockTextColor   = color.RGBA{20, 24, 28, 235}
	blockShadowColor = color.RGBA{0, 0, 0, 25}
)

type fontStyle int

const (
	fontRegular fontStyle = iota
	fontBold
)

var (
	fontsOnce   sync.Once
	parsedFonts map[fontStyle]*opentype.Font
)

func parseFonts() {
	parsedFonts = make(map[fontStyle]*opentype.Font)
	if f, err := opentype.Parse(goregular.TTF); err == nil {
		parsedFonts[fontRegular] = f
	}
	if f, err := opentype.Parse(gobold.TTF); err == nil {
		parsedFonts[fontBold] = f
	}
}

// loadFont ставит шрифт нужного размера, при ошибке basicfont
func loadFont(dc *gg.Context, size float64, style fontStyle) {
	fontsOnce.Do(parseFonts)

	if f, ok := parsedFonts[style]; ok {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// Options параметры отрисовки
type Options struct {
	// Now время для линии "сейчас". Нулевое значение линию не рисует.
	Now time.Time
	// Title подпись под датой, например имя мастера
	Title string
}

// BoardImage рисует раскладку дня в PNG
func BoardImage(board grid.Board, topo topology.Topology, opts Options) ([]byte, error) {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	columns := len(board.Columns)
	if columns == 0 {
		columns = 1
	}
	columnWidth := float64(imageWidth-leftLabelsWidth) / float64(columns)
	gridTop := float64(headerHeight)
	gridHeight := float64(imageHeight - headerHeight - footerHeight)

	drawHeader(dc, board.Date, opts.Title)
	drawColumns(dc, board, columnWidth, gridTop, gridHeight)
	drawTimeLabels(dc, topo, gridTop, gridHeight)
	for i, col := range board.Columns {
		x := float64(leftLabelsWidth) + float64(i)*columnWidth
		for _, block := range col.Blocks {
			drawBlock(dc, block, x, columnWidth, gridTop, gridHeight)
		}
	}
	drawCurrentTimeLine(dc, board.Date, topo, opts.Now, gridTop, gridHeight)
	drawFooter(dc, board)

	return encodeImage(dc)
}

// drawHeader рисует дату и подпись
func drawHeader(dc *gg.Context, date, title string) {
	heading := date
	if t, err := model.ParseDate(date); err == nil {
		heading = fmt.Sprintf("%s, %s", weekdayName(t.Weekday()), t.Format("02.01.2006"))
	}

	loadFont(dc, titleFontSize, fontBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(heading, 16, 30, 0, 0.5)

	if title != "" {
		loadFont(dc, stationFontSize, fontRegular)
		dc.SetColor(timeLabelColor)
		dc.DrawStringAnchored(title, imageWidth-16, 30, 1, 0.5)
	}
}

// drawColumns рисует фон и заголовки постов
func drawColumns(dc *gg.Context, board grid.Board, columnWidth, gridTop, gridHeight float64) {
	for i, col := range board.Columns {
		x := float64(leftLabelsWidth) + float64(i)*columnWidth

		if i%2 == 0 {
			dc.SetColor(evenColumnColor)
		} else {
			dc.SetColor(oddColumnColor)
		}
		dc.DrawRectangle(x, gridTop, columnWidth, gridHeight)
		dc.Fill()

		loadFont(dc, stationFontSize, fontBold)
		dc.SetColor(textColor)
		dc.DrawStringWrapped(col.Station.Name, x+columnWidth/2, gridTop-8, 0.5, 1, columnWidth-8, 1.1, gg.AlignCenter)

		dc.SetColor(hourLineColor)
		dc.SetLineWidth(0.5)
		dc.DrawLine(x, gridTop, x, gridTop+gridHeight)
		dc.Stroke()
	}
}

// drawTimeLabels подписи слотов слева и линии сетки
func drawTimeLabels(dc *gg.Context, topo topology.Topology, gridTop, gridHeight float64) {
	total := float64(topo.TotalMinutes())
	if total <= 0 {
		return
	}

	for _, slot := range topo.Slots() {
		y := gridTop + float64(slot.Minutes()-topo.StartMinutes())/total*gridHeight
		full := slot.Minute() == 0

		if full {
			dc.SetColor(hourLineColor)
			dc.SetLineWidth(0.6)
			loadFont(dc, timeLabelFontSize, fontBold)
		} else {
			dc.SetColor(halfHourColor)
			dc.SetLineWidth(0.3)
			loadFont(dc, timeLabelFontSize-2, fontRegular)
		}
		dc.DrawLine(leftLabelsWidth, y, imageWidth, y)
		dc.Stroke()

		dc.SetColor(timeLabelColor)
		dc.DrawStringAnchored(slot.String(), leftLabelsWidth-8, y, 1, 0.5)
	}
}

// drawBlock рисует одну запись. Выходящие за окно блоки обрезаются по краю.
func drawBlock(dc *gg.Context, block grid.Block, x, columnWidth, gridTop, gridHeight float64) {
	top, bottom := block.VisibleSpan()
	if bottom <= top {
		return
	}

	y := gridTop + top*gridHeight
	h := (bottom - top) * gridHeight
	if h < minBlockHeight {
		h = minBlockHeight
	}
	w := columnWidth - columnPaddingX*2
	bx := x + columnPaddingX

	fill := StatusColor(block.Booking.Status)

	// Тень
	dc.SetColor(blockShadowColor)
	dc.DrawRoundedRectangle(bx+shadowOffset, y+1+shadowOffset, w, h-2, blockBorderRadius)
	dc.Fill()

	// Основной блок
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(bx, y+1, w, h-2, blockBorderRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fill, 0.75))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(bx, y+1, w, h-2, blockBorderRadius)
	dc.Stroke()

	dc.Push()
	dc.DrawRectangle(bx, y, w, h)
	dc.Clip()
	defer dc.Pop()

	b := block.Booking
	lineHeight := blockFontSize + 3
	maxChars := int(w / (blockFontSize * 0.55))
	txtX := bx + 5
	txtY := y + 4 + blockFontSize

	loadFont(dc, blockFontSize, fontBold)
	dc.SetColor(blockTextColor)
	heading := fmt.Sprintf("%s–%s %s", b.StartTime, b.EndTime(), b.CarModel)
	dc.DrawString(truncate(heading, maxChars), txtX, txtY)

	loadFont(dc, blockFontSize, fontRegular)
	if b.Description != "" {
		txtY += lineHeight
		dc.DrawString(truncate(b.Description, maxChars), txtX, txtY)
	}

	if block.Compact {
		return
	}

	client := b.ClientName
	if b.ClientPhone != "" {
		if client != "" {
			client += " · "
		}
		client += b.ClientPhone
	}
	if client != "" && txtY+lineHeight < y+h-4 {
		txtY += lineHeight
		dc.DrawString(truncate(client, maxChars), txtX, txtY)
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени, если день сегодняшний
func drawCurrentTimeLine(dc *gg.Context, date string, topo topology.Topology, now time.Time, gridTop, gridHeight float64) {
	if now.IsZero() || model.FormatDate(now) != date {
		return
	}

	minutes := now.Hour()*60 + now.Minute()
	if minutes < topo.StartMinutes() || minutes > topo.EndMinutes() || topo.TotalMinutes() <= 0 {
		return
	}

	y := gridTop + float64(minutes-topo.StartMinutes())/float64(topo.TotalMinutes())*gridHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(leftLabelsWidth, y, imageWidth, y)
	dc.Stroke()
}

// drawFooter легенда статусов и записи вне сетки
func drawFooter(dc *gg.Context, board grid.Board) {
	y := float64(imageHeight) - footerHeight/2
	x := 16.0

	loadFont(dc, footerFontSize, fontRegular)
	for _, s := range model.Statuses() {
		dc.SetColor(StatusColor(s))
		dc.DrawRoundedRectangle(x, y-7, 20, 14, 3)
		dc.Fill()

		label := StatusLabel(s)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(label, x+26, y, 0, 0.35)
		w, _ := dc.MeasureString(label)
		x += 26 + w + 18
	}

	if n := len(board.Unplaced); n > 0 {
		dc.SetColor(currentTimeColor)
		dc.DrawStringAnchored(fmt.Sprintf("Вне сетки: %d", n), imageWidth-16, y, 1, 0.35)
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 1 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func weekdayName(weekday time.Weekday) string {
	return [...]string{"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота"}[weekday]
}
