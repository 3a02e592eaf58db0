package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CitiesFile - дополнительные города для сборщика
//
//	cities:
//	  - name: London
//	  - name: Moscow
type CitiesFile struct {
	Cities []CityEntry `yaml:"cities"`
}

type CityEntry struct {
	Name string `yaml:"name"`
}

// LoadCities читает YAML-файл со списком городов. Пустой путь - пустой список.
func LoadCities(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла городов: %w", err)
	}

	var file CitiesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла городов: %w", err)
	}

	cities := make([]string, 0, len(file.Cities))
	for _, c := range file.Cities {
		if name := strings.TrimSpace(c.Name); name != "" {
			cities = append(cities, name)
		}
	}
	return cities, nil
}
