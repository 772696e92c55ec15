package repository

import (
	"context"
	"errors"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	domainRepo "github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold is the stock level at or below which a book is
// flagged as low stock when no explicit threshold is given.
const DefaultLowStockThreshold = 5

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) domainRepo.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) CreateBatch(ctx context.Context, books []entity.Book) error {
	if len(books) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&books).Error
}

func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var book entity.Book
	err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &book, err
}

// GetByIDs retrieves multiple books by their IDs in a single query
func (r *bookRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Book, error) {
	if len(ids) == 0 {
		return []entity.Book{}, nil
	}
	var books []entity.Book
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&books).Error
	return books, err
}

func (r *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Book{}, "id = ?", id).Error
}

func (r *bookRepository) List(ctx context.Context, params *domainRepo.BookFilterParams) ([]entity.Book, int64, error) {
	var books []entity.Book
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Book{})

	if params.Search != "" {
		query = query.Where("title ILIKE ? OR author ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.LowStock {
		query = query.Where("stock <= ?", DefaultLowStockThreshold)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&books).Error

	return books, total, err
}

// ListWithCursor returns books using cursor-based pagination
func (r *bookRepository) ListWithCursor(ctx context.Context, params *domainRepo.BookCursorFilterParams) ([]entity.Book, error) {
	var books []entity.Book

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Book{})

	if params.Search != "" {
		query = query.Where("title ILIKE ? OR author ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.LowStock {
		query = query.Where("stock <= ?", DefaultLowStockThreshold)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	// Fetch limit+1 to detect hasMore
	err = query.Limit(params.Cursor.Limit + 1).
		Order("created_at ASC, id ASC").
		Find(&books).Error

	return books, err
}

func (r *bookRepository) GetLowStock(ctx context.Context, threshold int) ([]entity.Book, error) {
	var books []entity.Book
	err := r.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Find(&books).Error
	return books, err
}

func (r *bookRepository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).Model(&entity.Book{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error) {
	var categories []entity.Category
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Category{})

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&categories).Error

	return categories, total, err
}
