package isoxml

import (
	"os"
	"path/filepath"
	"reflect"
)

// DefaultDir is the directory, relative to the working directory, that
// receives files when no path is given.
const DefaultDir = "xml"

// SerializeToFile writes v with the default namespaces to
// path+filename+".xml". An empty path selects DefaultDir. The directory is
// created when missing and an existing file is overwritten.
func SerializeToFile(v any, filename, path string) error {
	return SerializeToFileWithNamespaces(v, filename, path, DefaultNamespaces())
}

// SerializeToFileWithNamespaces is SerializeToFile with an explicit binding
// set; a nil ns applies the defaults. path is used verbatim, including its
// separators.
func SerializeToFileWithNamespaces(v any, filename, path string, ns Namespaces) error {
	tw, err := serialize(v, ns)
	if err != nil {
		return err
	}
	data, err := tw.Bytes()
	if err != nil {
		return &SerializationError{Type: reflect.TypeOf(v), Internal: err}
	}

	if path == "" {
		path = DefaultDir + string(os.PathSeparator)
	}
	fullPath := path + filename + ".xml"
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FilesystemError{Op: "mkdir", Path: dir, Internal: err}
	}
	if err := writeFile(fullPath, data); err != nil {
		return err
	}

	DefaultLogger().Debug("Serialized object to file: "+fullPath, "path", fullPath)
	return nil
}

// DeserializeFromFile decodes the document stored in name into v.
func DeserializeFromFile(name string, v any) error {
	f, err := os.Open(name)
	if err != nil {
		return &FilesystemError{Op: "open", Path: name, Internal: err}
	}
	defer f.Close()
	return DeserializeFromStream(f, v)
}

func writeFile(name string, data []byte) (err error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &FilesystemError{Op: "open", Path: name, Internal: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &FilesystemError{Op: "close", Path: name, Internal: cerr}
		}
	}()
	if _, err = f.Write(data); err != nil {
		return &FilesystemError{Op: "write", Path: name, Internal: err}
	}
	return nil
}
