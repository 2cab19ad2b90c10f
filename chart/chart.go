// Package chart renders candlestick charts for posting alongside the tweet.
package chart

import (
	"fmt"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/tokennotifs/gainerbot/market"
)

// Palette matching the posted chart style: dark background, direction-coded
// bodies, gold emphasis on the winning bar.
const (
	colorBackground = "#0e1217"
	colorGreen      = "#00E676"
	colorRed        = "#FF5252"
	colorGold       = "#FFD700"
	colorGrid       = "#2d3748"
	colorText       = "#e2e8f0"
)

// Renderer draws candle sequences to PNG files.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer with the default canvas size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 1400, Height: 800}
}

// Render writes a candlestick chart for candles to outPath, overwriting any
// previous file. The second-to-last bar (the last fully closed one) is drawn
// in gold and annotated with its percentage move; other bars are green or red
// by direction. A volume strip sits under the price panel.
func (r *Renderer) Render(candles []market.Candle, title, outPath string) error {
	if len(candles) < 2 {
		return fmt.Errorf("need at least 2 candles, got %d", len(candles))
	}

	width, height := r.Width, r.Height
	if width <= 0 || height <= 0 {
		width, height = 1400, 800
	}

	winnerIdx := len(candles) - 2

	const (
		marginLeft   = 80.0
		marginRight  = 30.0
		marginTop    = 60.0
		marginBottom = 30.0
		panelGap     = 20.0
	)

	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom
	priceH := plotH * 0.72
	volumeH := plotH - priceH - panelGap
	priceTop := marginTop
	volumeTop := priceTop + priceH + panelGap

	lo, hi := candles[0].Low, candles[0].High
	maxVol := 0.0
	for _, c := range candles {
		if c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
		if c.Volume > maxVol {
			maxVol = c.Volume
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	if maxVol == 0 {
		maxVol = 1
	}
	// Breathing room above and below the extremes.
	pad := (hi - lo) * 0.05
	lo -= pad
	hi += pad

	priceY := func(p float64) float64 {
		return priceTop + (hi-p)/(hi-lo)*priceH
	}

	slotW := plotW / float64(len(candles))
	bodyW := slotW * 0.6
	xCenter := func(i int) float64 {
		return marginLeft + (float64(i)+0.5)*slotW
	}

	dc := gg.NewContext(width, height)
	dc.SetHexColor(colorBackground)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	// Horizontal grid with price labels.
	for i := 0; i <= 4; i++ {
		frac := float64(i) / 4
		y := priceTop + frac*priceH
		dc.SetHexColor(colorGrid)
		dc.SetLineWidth(1)
		dc.DrawLine(marginLeft, y, marginLeft+plotW, y)
		dc.Stroke()

		price := hi - frac*(hi-lo)
		dc.SetHexColor(colorText)
		dc.DrawStringAnchored(fmt.Sprintf("%.4f", price), marginLeft-8, y, 1, 0.4)
	}

	for i, c := range candles {
		x := xCenter(i)

		var bodyColor, edgeColor string
		switch {
		case i == winnerIdx:
			bodyColor, edgeColor = colorGold, colorGold
		case c.Green():
			bodyColor, edgeColor = colorGreen, colorGreen
		default:
			bodyColor, edgeColor = colorRed, colorRed
		}

		// Wick.
		dc.SetHexColor(edgeColor)
		dc.SetLineWidth(2)
		dc.DrawLine(x, priceY(c.High), x, priceY(c.Low))
		dc.Stroke()

		// Body, with a minimum height so dojis stay visible.
		top := priceY(max(c.Open, c.Close))
		bottom := priceY(min(c.Open, c.Close))
		if bottom-top < 2 {
			bottom = top + 2
		}
		dc.SetHexColor(bodyColor)
		dc.DrawRectangle(x-bodyW/2, top, bodyW, bottom-top)
		dc.Fill()

		// Volume bar.
		vh := c.Volume / maxVol * volumeH
		dc.SetHexColor(bodyColor)
		dc.DrawRectangle(x-bodyW/2, volumeTop+volumeH-vh, bodyW, vh)
		dc.Fill()

		// Hour label every 4th candle.
		if i%4 == 0 {
			dc.SetHexColor(colorText)
			dc.DrawStringAnchored(c.OpenTime.UTC().Format("15:04"), x, volumeTop+volumeH+16, 0.5, 0.5)
		}
	}

	// Winner annotation.
	if w := candles[winnerIdx]; w.Open != 0 {
		change := (w.Close - w.Open) / w.Open * 100
		label := fmt.Sprintf("+%.2f%%", change)
		if change < 0 {
			label = fmt.Sprintf("%.2f%%", change)
		}
		dc.SetHexColor(colorGold)
		dc.DrawStringAnchored(label, xCenter(winnerIdx), priceY(w.High)-14, 0.5, 0.5)
	}

	dc.SetHexColor(colorText)
	dc.DrawStringAnchored(title, marginLeft, marginTop/2, 0, 0.5)

	if err := dc.SavePNG(outPath); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
