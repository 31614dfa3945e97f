package pagestore

import (
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/at24cx"
)

// EEPROMConfig places the page store inside an AT24Cxx device.
type EEPROMConfig struct {
	Address      uint16 // I2C address; 0 => at24cx.Address
	Pages        int    // logical pages including the header
	PageSize     int    // logical page size in bytes
	BaseAddr     uint16 // first byte used inside the device
	ChipPageSize uint16 // device write-page size; 0 => 32 (AT24C32/64)
}

// EEPROM is a Store over an AT24Cxx serial EEPROM. Each commit flushes staged
// pages in write order, so a record lands before the header that points past it.
type EEPROM struct {
	mu    sync.Mutex
	dev   at24cx.Device
	cfg   EEPROMConfig
	stage staging
}

// NewEEPROM wraps an already configured I2C bus.
func NewEEPROM(bus drivers.I2C, cfg EEPROMConfig) *EEPROM {
	dev := at24cx.New(bus)
	if cfg.Address != 0 {
		dev.Address = cfg.Address
	}
	end := cfg.BaseAddr + uint16(cfg.Pages*cfg.PageSize)
	dev.Configure(at24cx.Config{
		PageSize:        cfg.ChipPageSize,
		StartRAMAddress: cfg.BaseAddr,
		EndRAMAddress:   end,
	})
	return &EEPROM{dev: dev, cfg: cfg}
}

func (e *EEPROM) PageSize() int { return e.cfg.PageSize }
func (e *EEPROM) Pages() int    { return e.cfg.Pages }

func (e *EEPROM) offset(index int) int64 {
	return int64(e.cfg.BaseAddr) + int64(index*e.cfg.PageSize)
}

func (e *EEPROM) ReadPage(index int, buf []byte) error {
	if err := checkIndex(e, "read_page", index); err != nil {
		return err
	}
	if len(buf) < e.cfg.PageSize {
		return ErrShortBuffer
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.stage.get(index); ok {
		copy(buf, p)
		return nil
	}
	_, err := e.dev.ReadAt(buf[:e.cfg.PageSize], e.offset(index))
	return err
}

func (e *EEPROM) WritePage(index int, data []byte) error {
	if err := checkIndex(e, "write_page", index); err != nil {
		return err
	}
	e.mu.Lock()
	e.stage.put(index, data, e.cfg.PageSize)
	e.mu.Unlock()
	return nil
}

func (e *EEPROM) Commit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stage.flush(func(i int, p []byte) error {
		_, err := e.dev.WriteAt(p, e.offset(i))
		return err
	})
}
