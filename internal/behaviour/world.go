package behaviour

// World owns every GameObject in the viewer and drives their components
// once per frame.
type World struct {
	gameObjects []*GameObject
	toDestroy   []*GameObject
}

func NewWorld() *World {
	return &World{
		gameObjects: make([]*GameObject, 0),
		toDestroy:   make([]*GameObject, 0),
	}
}

// Spawn adds obj to the world. It is started right before its first Update.
func (w *World) Spawn(obj *GameObject) *GameObject {
	w.gameObjects = append(w.gameObjects, obj)
	return obj
}

// Despawn marks obj for removal at the start of the next Update.
func (w *World) Despawn(obj *GameObject) {
	w.toDestroy = append(w.toDestroy, obj)
}

func (w *World) remove(obj *GameObject) {
	for i, o := range w.gameObjects {
		if o == obj {
			w.gameObjects = append(w.gameObjects[:i], w.gameObjects[i+1:]...)
			obj.Destroy()
			return
		}
	}
}

// Find returns the first object with the given name.
func (w *World) Find(name string) *GameObject {
	for _, obj := range w.gameObjects {
		if obj.Name == name {
			return obj
		}
	}
	return nil
}

// FindWithTag returns all objects with the given tag.
func (w *World) FindWithTag(tag string) []*GameObject {
	var result []*GameObject
	for _, obj := range w.gameObjects {
		if obj.Tag == tag {
			result = append(result, obj)
		}
	}
	return result
}

// Objects returns the live objects. The slice must not be modified.
func (w *World) Objects() []*GameObject {
	return w.gameObjects
}

// EntityCount is the number of live objects.
func (w *World) EntityCount() int {
	return len(w.gameObjects)
}

// Update applies pending despawns, starts new objects and updates all
// active ones.
func (w *World) Update(t Time) {
	if len(w.toDestroy) > 0 {
		for _, obj := range w.toDestroy {
			w.remove(obj)
		}
		w.toDestroy = w.toDestroy[:0]
	}

	for _, obj := range w.gameObjects {
		obj.internalStart()
	}
	for _, obj := range w.gameObjects {
		obj.internalUpdate(t)
	}
}

// Clear destroys and removes every object.
func (w *World) Clear() {
	for _, obj := range w.gameObjects {
		obj.Destroy()
	}
	w.gameObjects = w.gameObjects[:0]
	w.toDestroy = w.toDestroy[:0]
}
