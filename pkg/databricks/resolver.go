package databricks

import "strings"

// FilterNotebooks keeps only notebook objects, preserving upstream order.
func FilterNotebooks(objects []WorkspaceObject) []WorkspaceObject {
	notebooks := make([]WorkspaceObject, 0, len(objects))
	for _, obj := range objects {
		if obj.ObjectType == ObjectTypeNotebook {
			notebooks = append(notebooks, obj)
		}
	}
	return notebooks
}

// ResolveNotebook returns the first notebook whose path contains source,
// compared case-insensitively. Non-notebook objects never match.
func ResolveNotebook(objects []WorkspaceObject, source string) (WorkspaceObject, error) {
	needle := strings.ToLower(source)
	for _, obj := range objects {
		if obj.ObjectType != ObjectTypeNotebook {
			continue
		}
		if strings.Contains(strings.ToLower(obj.Path), needle) {
			return obj, nil
		}
	}
	return WorkspaceObject{}, ErrNotebookNotFound
}
