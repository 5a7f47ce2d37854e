// Package adhkar holds the built-in dhikr presets offered when creating a
// new target.
package adhkar

type Preset struct {
	Title   string
	Meaning string
	Target  int
}

var Presets = []Preset{
	{Title: "SubhanAllah", Meaning: "Glory be to Allah", Target: 33},
	{Title: "Alhamdulillah", Meaning: "Praise be to Allah", Target: 33},
	{Title: "Allahu Akbar", Meaning: "Allah is the Greatest", Target: 33},
	{Title: "Astaghfirullah", Meaning: "I seek forgiveness from Allah", Target: 100},
	{Title: "La ilaha illa Allah", Meaning: "There is no deity but Allah", Target: 100},
	{Title: "Salawat (Allahumma Salli...)", Meaning: "Blessings upon the Prophet", Target: 100},
	{Title: "SubhanAllah wa bihamdihi", Meaning: "Glory be to Allah and His Praise", Target: 100},
	{Title: "La hawla wa la quwwata illa billah", Meaning: "No power nor strength except by Allah", Target: 100},
	{Title: "Ayat al-Kursi", Meaning: "Verse of the Throne", Target: 1},
	{Title: "Surah Al-Ikhlas", Meaning: "The Sincerity", Target: 3},
}
