package tasksprotocol

const (
	Pending    = "Pendiente"
	InProgress = "En Progreso"
	Completed  = "Completada"
)

type Task struct {
	ID     int64  `json:"id"`
	TaskID int64  `json:"id_tarea"`
	Title  string `json:"titulo"`
	Estado string `json:"estado"`
}

// Key returns whichever identifier the task service filled in.
func (t Task) Key() int64 {
	if t.ID != 0 {
		return t.ID
	}
	return t.TaskID
}

type CreateRequest struct {
	Title       string `json:"titulo"`
	Description string `json:"descripcion,omitempty"`
	Deadline    string `json:"fecha_limite,omitempty"`
	Estado      string `json:"estado,omitempty"`
	Priority    string `json:"prioridad,omitempty"`
	Assignee    string `json:"asignado_a,omitempty"`
}

type StatusUpdate struct {
	Estado string `json:"estado"`
}
