// Package repotest provides in-memory repositories for service and handler tests.
// They mimic the Postgres behaviour the services rely on: gorm.ErrRecordNotFound
// on misses, gorm.ErrDuplicatedKey on unique violations, ordering and preloads.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"dragonya/internal/model"
	"dragonya/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Administradores ──────────────────────────────────────────────────────────

type Administradores struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Administrador
}

var _ repository.AdministradorRepository = (*Administradores)(nil)

func NewAdministradores() *Administradores {
	return &Administradores{rows: make(map[uuid.UUID]model.Administrador)}
}

func (r *Administradores) Crear(_ context.Context, a *model.Administrador) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == a.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Rol == "" {
		a.Rol = model.RolAdministrador
	}
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	r.rows[a.ID] = *a
	return nil
}

func (r *Administradores) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Administrador, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *Administradores) ObtenerPorEmail(_ context.Context, email string) (*model.Administrador, error) {
	return r.buscar(func(a model.Administrador) bool { return a.Email == email })
}

func (r *Administradores) ObtenerPorToken(_ context.Context, token string) (*model.Administrador, error) {
	return r.buscar(func(a model.Administrador) bool { return a.Token != nil && *a.Token == token })
}

func (r *Administradores) buscar(match func(model.Administrador) bool) (*model.Administrador, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if match(row) {
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Administradores) Actualizar(_ context.Context, a *model.Administrador) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.UpdatedAt = time.Now()
	r.rows[a.ID] = *a
	return nil
}

// ── Estudiantes ──────────────────────────────────────────────────────────────

type Estudiantes struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Estudiante
	// Creados counts successful inserts.
	Creados int
}

var _ repository.EstudianteRepository = (*Estudiantes)(nil)

func NewEstudiantes() *Estudiantes {
	return &Estudiantes{rows: make(map[uuid.UUID]model.Estudiante)}
}

func (r *Estudiantes) Crear(_ context.Context, e *model.Estudiante) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == e.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Rol == "" {
		e.Rol = model.RolEstudiante
	}
	e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
	r.rows[e.ID] = *e
	r.Creados++
	return nil
}

func (r *Estudiantes) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Estudiante, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *Estudiantes) ObtenerPorEmail(_ context.Context, email string) (*model.Estudiante, error) {
	return r.buscar(func(e model.Estudiante) bool { return e.Email == email })
}

func (r *Estudiantes) ObtenerPorToken(_ context.Context, token string) (*model.Estudiante, error) {
	return r.buscar(func(e model.Estudiante) bool { return e.Token != nil && *e.Token == token })
}

func (r *Estudiantes) buscar(match func(model.Estudiante) bool) (*model.Estudiante, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if match(row) {
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Estudiantes) Listar(_ context.Context) ([]model.Estudiante, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]model.Estudiante, 0, len(r.rows))
	for _, row := range r.rows {
		list = append(list, row)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Apellido != list[j].Apellido {
			return list[i].Apellido < list[j].Apellido
		}
		return list[i].Nombre < list[j].Nombre
	})
	return list, nil
}

func (r *Estudiantes) Actualizar(_ context.Context, e *model.Estudiante) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.UpdatedAt = time.Now()
	r.rows[e.ID] = *e
	return nil
}

// ── Categorias ───────────────────────────────────────────────────────────────

type Categorias struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Categoria
}

var _ repository.CategoriaRepository = (*Categorias)(nil)

func NewCategorias() *Categorias {
	return &Categorias{rows: make(map[uuid.UUID]model.Categoria)}
}

func (r *Categorias) Crear(_ context.Context, c *model.Categoria) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Nombre == c.Nombre {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	r.rows[c.ID] = *c
	return nil
}

func (r *Categorias) Listar(_ context.Context, soloActivas bool) ([]model.Categoria, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]model.Categoria, 0, len(r.rows))
	for _, row := range r.rows {
		if soloActivas && !row.Estado {
			continue
		}
		list = append(list, row)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
	return list, nil
}

func (r *Categorias) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *Categorias) ObtenerPorNombre(_ context.Context, nombre string) (*model.Categoria, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Nombre == nombre {
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Categorias) ExisteNombre(_ context.Context, nombre string, excluir uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Nombre == nombre && row.ID != excluir {
			return true, nil
		}
	}
	return false, nil
}

func (r *Categorias) Actualizar(_ context.Context, c *model.Categoria) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Nombre == c.Nombre && row.ID != c.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	c.UpdatedAt = time.Now()
	r.rows[c.ID] = *c
	return nil
}

// ── Publicaciones ────────────────────────────────────────────────────────────

// Publicaciones resolves Autor and Categoria from the sibling repositories on preload.
type Publicaciones struct {
	mu          sync.Mutex
	rows        map[uuid.UUID]model.Publicacion
	estudiantes *Estudiantes
	categorias  *Categorias
	reloj       time.Time
}

var _ repository.PublicacionRepository = (*Publicaciones)(nil)

func NewPublicaciones(estudiantes *Estudiantes, categorias *Categorias) *Publicaciones {
	return &Publicaciones{
		rows:        make(map[uuid.UUID]model.Publicacion),
		estudiantes: estudiantes,
		categorias:  categorias,
		reloj:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *Publicaciones) Crear(_ context.Context, p *model.Publicacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	// strictly increasing timestamps keep "newest first" deterministic
	r.reloj = r.reloj.Add(time.Second)
	p.CreatedAt, p.UpdatedAt = r.reloj, r.reloj
	row := *p
	row.Autor, row.Categoria = nil, nil
	r.rows[p.ID] = row
	return nil
}

func (r *Publicaciones) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Publicacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *Publicaciones) ObtenerDetalle(ctx context.Context, id uuid.UUID) (*model.Publicacion, error) {
	p, err := r.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.preload(ctx, p, true)
	return p, nil
}

func (r *Publicaciones) ObtenerPorTitulo(_ context.Context, titulo string) (*model.Publicacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Titulo == titulo {
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Publicaciones) ListarTodas(ctx context.Context) ([]model.Publicacion, error) {
	list := r.filtrar(func(model.Publicacion) bool { return true })
	sort.Slice(list, func(i, j int) bool { return list[i].Titulo < list[j].Titulo })
	for i := range list {
		r.preload(ctx, &list[i], true)
	}
	return list, nil
}

func (r *Publicaciones) ListarDisponibles(ctx context.Context) ([]model.Publicacion, error) {
	list := r.filtrar(func(p model.Publicacion) bool { return p.Disponible })
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	for i := range list {
		r.preload(ctx, &list[i], true)
	}
	return list, nil
}

func (r *Publicaciones) ListarPorAutor(ctx context.Context, autorID uuid.UUID) ([]model.Publicacion, error) {
	list := r.filtrar(func(p model.Publicacion) bool { return p.AutorID == autorID })
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	for i := range list {
		r.preload(ctx, &list[i], false)
	}
	return list, nil
}

func (r *Publicaciones) Actualizar(_ context.Context, p *model.Publicacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	row := *p
	row.Autor, row.Categoria = nil, nil
	r.rows[p.ID] = row
	return nil
}

func (r *Publicaciones) Eliminar(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

// Cantidad returns the number of stored listings.
func (r *Publicaciones) Cantidad() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *Publicaciones) filtrar(match func(model.Publicacion) bool) []model.Publicacion {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]model.Publicacion, 0, len(r.rows))
	for _, row := range r.rows {
		if match(row) {
			list = append(list, row)
		}
	}
	return list
}

func (r *Publicaciones) preload(ctx context.Context, p *model.Publicacion, conAutor bool) {
	if conAutor && r.estudiantes != nil {
		if e, err := r.estudiantes.ObtenerPorID(ctx, p.AutorID); err == nil {
			p.Autor = e
		}
	}
	if r.categorias != nil {
		if c, err := r.categorias.ObtenerPorID(ctx, p.CategoriaID); err == nil {
			p.Categoria = c
		}
	}
}
