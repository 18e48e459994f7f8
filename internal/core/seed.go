package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/peoplesearch/internal/backend/database"
	"github.com/jo-hoe/peoplesearch/internal/backend/imageinfo"
)

const seedAvatarSize = 96

// seedPeople have fixed, numeric looking ids where ID is set; the others get
// store assigned ids.
var seedPeople = []database.Person{
	{
		ID: "1", FirstName: "Hello", LastName: "World", Gender: "Planet", Age: 4543000,
		Interests: "Rotating", AvatarID: "world.png", Addr1: "3rd Planet",
		Country: "Milky Way", State: "Orian Arm", City: "Solar System", ZipCode: "0",
	},
	{
		ID: "2", FirstName: "John", LastName: "Smith", Gender: "Male", Age: 25,
		Interests: "Making stuff out of metal.", AvatarID: "man_960_720.png", Addr1: "123 Main St.",
		Country: "USA", State: "UT", City: "Salt Lake City", ZipCode: "84101",
	},
	{
		FirstName: "Jane", LastName: "Doe", Gender: "Female", Age: 30,
		Interests: "Writing letters.", AvatarID: "woman_960_720.png", Addr1: "328 West 89th Street",
		Addr2: "APT B1", Country: "USA", State: "NY", City: "New York", ZipCode: "10024",
	},
	{FirstName: "Some", LastName: "Person"},
	{
		ID: "7", FirstName: "Mr", LastName: "Ed", Gender: "Male", Age: 4,
		Interests: "Talking.", AvatarID: "mr_ed_960_720.png",
	},
}

var seedAvatars = []struct {
	id       string
	personID string
	color    string
}{
	{"man_960_720.png", "2", "#4a78b5"},
	{"mr_ed_960_720.png", "7", "#8b5a2b"},
	{"profile_placeholder.png", "", "#9e9e9e"},
	{"woman_960_720.png", "", "#c2185b"},
	{"world.png", "1", "#2e7d32"},
}

const seedAvatarSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 96 96">` +
	`<circle cx="48" cy="34" r="20" fill="%[1]s"/>` +
	`<path d="M12 92 C12 62 84 62 84 92 Z" fill="%[1]s"/></svg>`

// SeedDefaults fills an empty people collection and an empty image collection
// with demo data in a single unit of work.
func (service *CoreService) SeedDefaults(ctx context.Context) error {
	peopleCount, err := service.databaseService.CountPeople(ctx)
	if err != nil {
		return err
	}
	imageCount, err := service.databaseService.CountImages(ctx)
	if err != nil {
		return err
	}
	if peopleCount > 0 && imageCount > 0 {
		return nil
	}

	images := make([]*database.Image, 0, len(seedAvatars))
	if imageCount == 0 {
		for _, avatar := range seedAvatars {
			data, err := imageinfo.RenderSVG([]byte(fmt.Sprintf(seedAvatarSVG, avatar.color)), seedAvatarSize, seedAvatarSize)
			if err != nil {
				return fmt.Errorf("render seed avatar %s: %w", avatar.id, err)
			}
			images = append(images, &database.Image{ID: avatar.id, PersonID: avatar.personID, Data: data})
		}
	}

	err = service.withTransaction(ctx, func(tx database.Transaction) error {
		if peopleCount == 0 {
			for i := range seedPeople {
				person := seedPeople[i]
				var err error
				if person.ID == "" {
					err = tx.AddPerson(ctx, &person)
				} else {
					err = tx.SeedPerson(ctx, &person)
				}
				if err != nil {
					return err
				}
			}
		}
		for _, image := range images {
			if err := tx.SeedImage(ctx, image); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("database seeded", "peopleSeeded", peopleCount == 0, "imagesSeeded", len(images))
	return nil
}
