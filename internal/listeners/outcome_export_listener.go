package listeners

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"zayavka-portal/internal/events"
	"zayavka-portal/pkg/eventbus"
)

const exportSheet = "Заявки"

var exportHeaders = []interface{}{
	"Тип заявки", "Описание", "Дата", "Статус", "Файл", "Пользователь", "Факультет",
}

// OutcomeExportListener ведёт накопительные книги exports/сделано.xlsx и
// exports/отказано.xlsx: по одной строке на каждую закрытую заявку.
// Книга переписывается атомарно (временный файл + rename), чтобы читатель
// никогда не увидел полузаписанный архив.
type OutcomeExportListener struct {
	exportDir string
	logger    *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewOutcomeExportListener(exportDir string, logger *zap.Logger) *OutcomeExportListener {
	return &OutcomeExportListener{
		exportDir: exportDir,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Register подписывает слушателя на смену статуса заявки.
func (l *OutcomeExportListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ZayavkaStatusChanged, l.Handle)
}

func (l *OutcomeExportListener) Handle(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.ZayavkaStatusChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}
	if !e.NewStatus.IsTerminal() {
		return nil
	}

	path := filepath.Join(l.exportDir, e.NewStatus.String()+".xlsx")
	lock := l.pathLock(path)
	lock.Lock()
	defer lock.Unlock()

	if err := l.appendRow(path, e); err != nil {
		l.logger.Error("не удалось дописать архив закрытых заявок",
			zap.String("path", path),
			zap.Int("zayavka_id", e.ZayavkaID),
			zap.Error(err),
		)
		return err
	}

	l.logger.Info("заявка записана в архив",
		zap.Int("zayavka_id", e.ZayavkaID),
		zap.String("status", e.NewStatus.String()),
	)
	return nil
}

// pathLock — по мьютексу на файл: книги разных статусов пишутся независимо.
func (l *OutcomeExportListener) pathLock(path string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[path] = lock
	}
	return lock
}

func (l *OutcomeExportListener) appendRow(path string, e events.ZayavkaStatusChangedEvent) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ошибка создания каталога экспорта: %w", err)
	}

	f, err := l.openOrCreate(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	if err != nil {
		return fmt.Errorf("ошибка чтения листа: %w", err)
	}

	file := e.File
	if file == "" {
		file = "Нет файла"
	}
	row := []interface{}{
		e.Type,
		e.Description,
		e.CreatedAt.Local().Format("02.01.2006 15:04"),
		e.NewStatus.String(),
		file,
		e.OwnerUsername,
		e.OwnerFaculty,
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
		return fmt.Errorf("ошибка записи строки: %w", err)
	}

	return l.saveAtomic(f, path)
}

func (l *OutcomeExportListener) openOrCreate(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия книги: %w", err)
		}
		return f, nil
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		f.Close()
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "G1", style)
	}
	return f, nil
}

// saveAtomic сохраняет книгу во временный файл рядом с целевым и
// подменяет его переименованием.
func (l *OutcomeExportListener) saveAtomic(f *excelize.File, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.xlsx")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := f.SaveAs(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка сохранения книги: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка замены книги: %w", err)
	}
	return nil
}
