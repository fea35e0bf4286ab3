package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Aashish23092/passport-reader/dto"
	"github.com/Aashish23092/passport-reader/logger"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const specimenMRZ = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<\n" +
	"L898902C36UTO7408122F1204159ZE184226B<<<<<10\n"

// fakeMRZEngine returns its responses in call order and records the images
// it was given.
type fakeMRZEngine struct {
	responses []string
	err       error
	images    [][]byte
}

func (f *fakeMRZEngine) ExtractMRZText(_ context.Context, image []byte) (string, error) {
	f.images = append(f.images, image)
	if f.err != nil {
		return "", f.err
	}
	i := len(f.images) - 1
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", nil
}

func TestReadMRZ_FoundInBand(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "passport.png", 400, 300)
	engine := &fakeMRZEngine{responses: []string{specimenMRZ}}

	res, err := NewMRZService(engine, 0.4, logger.Nop()).ReadMRZ(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, dto.FormatTD3, res.Format)
	assert.Equal(t, "ERIKSSON", res.Surname)
	assert.Equal(t, 100, res.ValidScore)
	require.Len(t, engine.images, 1)

	band, err := imaging.Decode(bytes.NewReader(engine.images[0]))
	require.NoError(t, err)
	assert.Equal(t, mrzMinWidth, band.Bounds().Dx())
	assert.Equal(t, 360, band.Bounds().Dy())
}

func TestReadMRZ_FallsBackToFullImage(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "passport.png", 400, 300)
	engine := &fakeMRZEngine{responses: []string{"NOTHING HERE", specimenMRZ}}

	res, err := NewMRZService(engine, 0.4, logger.Nop()).ReadMRZ(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "L898902C3", res.DocumentNumber)
	assert.Len(t, engine.images, 2)
}

func TestReadMRZ_NoZone(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "passport.png", 400, 300)
	engine := &fakeMRZEngine{}

	res, err := NewMRZService(engine, 0.4, logger.Nop()).ReadMRZ(context.Background(), path)
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Len(t, engine.images, 2)
}

func TestReadMRZ_FullImageOnly(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "passport.png", 1600, 1000)
	engine := &fakeMRZEngine{}

	_, err := NewMRZService(engine, 1, logger.Nop()).ReadMRZ(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, engine.images, 1)

	img, err := imaging.Decode(bytes.NewReader(engine.images[0]))
	require.NoError(t, err)
	assert.Equal(t, 1600, img.Bounds().Dx())
}

func TestReadMRZ_EngineError(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), "passport.png", 400, 300)
	engine := &fakeMRZEngine{err: errors.New("tesseract crashed")}

	_, err := NewMRZService(engine, 0.4, logger.Nop()).ReadMRZ(context.Background(), path)
	assert.ErrorContains(t, err, "tesseract crashed")
}

func TestReadMRZ_Undecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passport.jpg")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
	engine := &fakeMRZEngine{}

	_, err := NewMRZService(engine, 0.4, logger.Nop()).ReadMRZ(context.Background(), path)
	assert.Error(t, err)
	assert.Empty(t, engine.images)
}
